package domain

type User struct {
	Username     string
	PasswordHash string
	Preferences  string
}

// ProfileStats is the per-user analytics block shown on the profile page.
type ProfileStats struct {
	Bookings []FlightCount
	Coupons  []CouponUsage
}

type FlightCount struct {
	FlightID string
	Count    int64
}

type CouponUsage struct {
	Code  string
	Count int64
}
