package core

import "time"

// School is a school whose seats are allocated by the lottery
type School struct {
	ID                int64     `json:"id" yaml:"-"`
	Name              string    `json:"name" yaml:"name"`
	Address           string    `json:"address" yaml:"address"`
	City              string    `json:"city" yaml:"city"`
	State             string    `json:"state" yaml:"state"`
	ZipCode           string    `json:"zipCode" yaml:"zip_code"`
	Phone             string    `json:"phone" yaml:"phone"`
	MaxTotalSeats     int       `json:"maxTotalSeats" yaml:"max_total_seats"`
	MaxLowIncomeSeats int       `json:"maxLowIncomeSeats" yaml:"max_low_income_seats"`
	CreatedAt         time.Time `json:"createdAt" yaml:"-"`
}

// GlobalConfiguration holds the application window and lottery date
type GlobalConfiguration struct {
	ID             int64      `json:"id" yaml:"-"`
	OpenDate       time.Time  `json:"openDate" yaml:"open_date"`
	CloseDate      time.Time  `json:"closeDate" yaml:"close_date"`
	LotteryRunDate *time.Time `json:"lotteryRunDate,omitempty" yaml:"lottery_run_date"`
	WelcomeMessage string     `json:"welcomeMessage" yaml:"welcome_message"`
	CreatedAt      time.Time  `json:"createdAt" yaml:"-"`
}

// IsOpen reports whether applications are accepted at t. The window is
// inclusive of OpenDate and exclusive of CloseDate.
func (g *GlobalConfiguration) IsOpen(t time.Time) bool {
	return !t.Before(g.OpenDate) && t.Before(g.CloseDate)
}
