//go:build unit

package api_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"storefront-checkout/internal/domain/order"
	"storefront-checkout/internal/handler/api"
	resdto "storefront-checkout/internal/handler/dto/response"
	"storefront-checkout/internal/handler/middleware"
	"storefront-checkout/internal/pkg/errs"
	"storefront-checkout/internal/usecase/commands"
	"storefront-checkout/tests/common/builder"
	"storefront-checkout/tests/common/httptest"
	"storefront-checkout/tests/common/testutil"
	commandsmock "storefront-checkout/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type CheckoutHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockCheckoutCommands
}

func (s *CheckoutHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.router.Use(middleware.ErrorHandler())

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockCheckoutCommands(s.mockCtrl)
	handler := api.NewCheckoutHandler(s.mockCommands)

	s.router.POST("/api/checkout", handler.PlaceOrder)
}

func (s *CheckoutHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestCheckoutHandlerSuite(t *testing.T) {
	suite.Run(t, new(CheckoutHandlerTestSuite))
}

const checkoutURL = "/api/checkout"

func (s *CheckoutHandlerTestSuite) placed() *commands.PlaceOrderResult {
	return &commands.PlaceOrderResult{
		OrderID:       uuid.New(),
		OrderNumber:   "ORD-482913",
		PaymentMethod: "COD",
		Total:         decimal.NewFromInt(1350),
	}
}

func (s *CheckoutHandlerTestSuite) TestPlaceOrder() {
	product := builder.NewProductBuilder().WithID("prod-1")

	s.Run("success: returns 200 with order number and payment", func() {
		reqBody := builder.NewCheckoutBuilder().WithProduct(product, 2).BuildRequestDTO()

		var got order.Checkout
		s.mockCommands.EXPECT().PlaceOrder(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, c order.Checkout) (*commands.PlaceOrderResult, error) {
				got = c
				return s.placed(), nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, checkoutURL, reqBody, "")

		var response resdto.CheckoutResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("Order placed successfully!", response.Message)
		s.Equal("ORD-482913", response.OrderID)
		s.Equal("COD", response.Payment)

		s.Equal("0771234567", got.Customer.Phone)
		s.Require().Len(got.Lines, 1)
		s.Equal("prod-1", got.Lines[0].ProductID)
		s.Equal("v-red", got.Lines[0].VariantKey)
		s.Equal("Red", got.Lines[0].VariantLabel)
		s.True(decimal.NewFromInt(2).Equal(got.Lines[0].Quantity))
		s.True(decimal.NewFromInt(1350).Equal(got.DeclaredTotal))
	})

	s.Run("success: inputs are trimmed and unknown fields ignored", func() {
		reqBody := builder.NewCheckoutBuilder().WithProduct(product, 1).BuildRequestDTO()
		requestMap := testutil.DtoMap(s.T(), reqBody,
			testutil.Field("form.phone", "  0771234567 "),
			testutil.Field("form.firstName", " Nimali"),
			testutil.Field("coupon", "SAVE10"),
		)

		var got order.Checkout
		s.mockCommands.EXPECT().PlaceOrder(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, c order.Checkout) (*commands.PlaceOrderResult, error) {
				got = c
				return s.placed(), nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, checkoutURL, requestMap, "")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
		s.Equal("0771234567", got.Customer.Phone)
		s.Equal("Nimali", got.Customer.FirstName)
	})

	s.Run("success: fractional quantity is passed through", func() {
		reqBody := builder.NewCheckoutBuilder().WithProduct(product, 1).BuildRequestDTO()
		requestMap := testutil.DtoMap(s.T(), reqBody)
		requestMap["items"].([]any)[0].(map[string]any)["quantity"] = 2.5

		var got order.Checkout
		s.mockCommands.EXPECT().PlaceOrder(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, c order.Checkout) (*commands.PlaceOrderResult, error) {
				got = c
				return s.placed(), nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, checkoutURL, requestMap, "")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
		s.Equal("2.5", got.Lines[0].Quantity.String())
	})

	s.Run("error: 400 when the body cannot be bound", func() {
		reqBody := builder.NewCheckoutBuilder().WithProduct(product, 1).BuildRequestDTO()

		cases := []struct {
			name string
			body map[string]any
		}{
			{name: "missing total", body: testutil.DtoMap(s.T(), reqBody, testutil.Field("total", nil))},
			{name: "non-numeric total", body: testutil.DtoMap(s.T(), reqBody, testutil.Field("total", "abc"))},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, checkoutURL, tc.body, "")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Missing required checkout fields")
			})
		}

		s.Run("malformed json", func() {
			rec := httptest.PerformRawRequest(s.T(), s.router, http.MethodPost, checkoutURL, `{"form":`)
			httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Missing required checkout fields")
		})
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		reqBody := builder.NewCheckoutBuilder().WithProduct(product, 1).BuildRequestDTO()

		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "missing customer fields",
				commandsError:  errs.Mark(order.ErrMissingCustomerFields, commands.ErrValidation),
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "Missing required checkout fields",
			},
			{
				name:           "non-positive quantity",
				commandsError:  errs.Mark(order.ErrNonPositiveQuantity, commands.ErrValidation),
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "Invalid item quantity",
			},
			{
				name:           "duplicate submission",
				commandsError:  commands.ErrDuplicateRequest,
				expectedStatus: http.StatusTooManyRequests,
				expectedMsg:    "Duplicate order detected. Please wait a moment.",
			},
			{
				name: "product not found",
				commandsError: errs.Mark(&order.LineError{
					Kind: order.ErrProductNotFound, ProductID: "prod-gone",
				}, commands.ErrProductNotFound),
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Product not found: prod-gone",
			},
			{
				name: "variant not found",
				commandsError: errs.Mark(&order.LineError{
					Kind: order.ErrVariantNotFound, ProductID: "prod-1", ProductName: "Linen Saree",
				}, commands.ErrVariantNotFound),
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "Variant not found for Linen Saree",
			},
			{
				name: "insufficient stock",
				commandsError: errs.Mark(&order.LineError{
					Kind: order.ErrInsufficientStock, ProductID: "prod-1", ProductName: "Linen Saree",
					VariantLabel: "Red", Remaining: decimal.NewFromInt(2),
				}, commands.ErrInsufficientStock),
				expectedStatus: http.StatusConflict,
				expectedMsg:    "Insufficient stock for Linen Saree (Red). Only 2 left.",
			},
			{
				name:           "commit conflict",
				commandsError:  errs.Mark(errors.New("revision mismatch"), commands.ErrCommitConflict),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Order could not be processed. Please try again.",
			},
			{
				name:           "order creation failed",
				commandsError:  errs.Mark(errors.New("connection reset"), commands.ErrOrderCreationFailed),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Order could not be processed. Please try again.",
			},
			{
				name:           "misconfiguration",
				commandsError:  commands.ErrConfiguration,
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Server misconfiguration",
			},
			{
				name:           "store failure",
				commandsError:  errs.Mark(errors.New("connection refused"), commands.ErrStoreFailure),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().PlaceOrder(gomock.Any(), gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, checkoutURL, reqBody, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}
