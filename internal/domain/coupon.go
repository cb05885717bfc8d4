package domain

type Coupon struct {
	ID       int64
	Username string
	Code     string
	Discount float64
}
