package order

import "errors"

var (
	ErrInvalidStatus       = errors.New("invalid order status")
	ErrCancelledIsTerminal = errors.New("cancelled orders cannot be reopened")
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// Transition describes what a status change implies for the stock ledger.
type Transition struct {
	From         Status
	To           Status
	RestoreStock bool
	NoOp         bool
}

// PlanTransition validates a staff status change. Cancellation is terminal;
// entering it is the only move that returns stock.
func PlanTransition(from, to Status) (Transition, error) {
	if !from.IsValid() || !to.IsValid() {
		return Transition{}, ErrInvalidStatus
	}
	if from == to {
		return Transition{From: from, To: to, NoOp: true}, nil
	}
	if from == StatusCancelled {
		return Transition{}, ErrCancelledIsTerminal
	}
	return Transition{
		From:         from,
		To:           to,
		RestoreStock: to == StatusCancelled,
	}, nil
}
