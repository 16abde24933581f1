package models

import (
	"strings"
	"time"
)

// OrderStatus is overall order state
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusPaid      OrderStatus = "Paid"
	OrderStatusScheduled OrderStatus = "Scheduled"
	OrderStatusCompleted OrderStatus = "Completed"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// ParseOrderStatus converts string to OrderStatus.
// Matching is case-insensitive, unknown values return ErrInvalidStatus.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return OrderStatusPending, nil
	case "paid":
		return OrderStatusPaid, nil
	case "scheduled":
		return OrderStatusScheduled, nil
	case "completed":
		return OrderStatusCompleted, nil
	case "cancelled":
		return OrderStatusCancelled, nil
	}
	return "", ErrInvalidStatus
}

// AssignmentStatus is state of a single technician assignment
type AssignmentStatus string

const (
	AssignmentStatusPending   AssignmentStatus = "pending"
	AssignmentStatusAccepted  AssignmentStatus = "accepted"
	AssignmentStatusDeclined  AssignmentStatus = "declined"
	AssignmentStatusCompleted AssignmentStatus = "completed"
)

// PackageType is pricing model of a line item
type PackageType string

const (
	PackageOneTime   PackageType = "onetime"
	PackageMonthly   PackageType = "monthly"
	PackageQuarterly PackageType = "quarterly"
	PackageYearly    PackageType = "yearly"
)

// ParsePackageType converts string to PackageType.
// An empty string means a one-time booking.
func ParsePackageType(s string) (PackageType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "onetime":
		return PackageOneTime, nil
	case "monthly":
		return PackageMonthly, nil
	case "quarterly":
		return PackageQuarterly, nil
	case "yearly":
		return PackageYearly, nil
	}
	return "", ErrInvalidPackage
}

// Customer is free-text contact details captured with the order
type Customer struct {
	Name    string
	Phone   string
	Address string
}

// OrderLineItem is one booked service within an order.
// Prices are computed at order creation and never recomputed from the catalog.
type OrderLineItem struct {
	ID            uint64
	ServiceID     string
	AddOnIDs      []string
	PackageType   PackageType
	PackageTimes  int
	ScheduledDate time.Time
	ScheduledSlot string
	UnitPrice     float64
	AddOnsTotal   float64
	LineTotal     float64
}

// Assignment is one technician's claim on an order
type Assignment struct {
	OrderID     string
	EmployeeID  string
	Status      AssignmentStatus
	AssignedAt  time.Time
	AcceptedAt  *time.Time
	DeclinedAt  *time.Time
	CompletedAt *time.Time
}

// Order is order entity
type Order struct {
	ID                 string
	Customer           Customer
	Items              []OrderLineItem
	Subtotal           float64
	Tax                float64
	TotalAmount        float64
	Status             OrderStatus
	AssignmentStatus   AssignmentStatus
	AssignedEmployeeID string
	Assignments        []Assignment
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
