package domain

type UserStatusType string

const (
	UserStatusActive UserStatusType = "active"
	UserStatusBanned UserStatusType = "banned"
)

type OrderStatusType string

const (
	OrderStatusPending   OrderStatusType = "pending"
	OrderStatusCompleted OrderStatusType = "completed"
	OrderStatusRejected  OrderStatusType = "rejected"
	OrderStatusRefunded  OrderStatusType = "refunded"
)

type TransactionStatusType string

const (
	TransactionStatusPending   TransactionStatusType = "pending"
	TransactionStatusCompleted TransactionStatusType = "completed"
	TransactionStatusRejected  TransactionStatusType = "rejected"
)

type ProductType string

const (
	ProductTypePlain      ProductType = "plain"
	ProductTypeCounter    ProductType = "counter"
	ProductTypeQuantities ProductType = "quantities"
	ProductTypeCustom     ProductType = "custom"
)
