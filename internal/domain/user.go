package domain

import "time"

type UserStatus string

const (
	StatusActive UserStatus = "active"
	StatusBanned UserStatus = "banned"
)

type Currency string

const (
	CurrencyUSD   Currency = "USD"
	CurrencyEUR   Currency = "EUR"
	CurrencyTON   Currency = "TON"
	CurrencyStars Currency = "STARS"
)

// ValidCurrency reports whether c belongs to the supported set.
func ValidCurrency(c Currency) bool {
	switch c {
	case CurrencyUSD, CurrencyEUR, CurrencyTON, CurrencyStars:
		return true
	}
	return false
}

type User struct {
	ID                int64      `db:"id" json:"id"`
	Handle            string     `db:"handle" json:"handle"`
	FirstName         string     `db:"first_name" json:"first_name"`
	AmountWon         int64      `db:"amount_won" json:"amount_won"`
	QualifyingActions int64      `db:"qualifying_actions" json:"qualifying_actions"`
	Status            UserStatus `db:"status" json:"status"`
	ReactivateOn      *time.Time `db:"reactivate_on" json:"reactivate_on,omitempty"`
	Currency          Currency   `db:"currency" json:"currency"`
	Notifications     []string   `db:"notifications" json:"notifications"`
	Bonus             *string    `db:"bonus" json:"bonus,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
}

// Banned reports whether the user is currently banned. A ban with a
// reactivation date in the past counts as lifted.
func (u *User) Banned(now time.Time) bool {
	if u.Status != StatusBanned {
		return false
	}
	if u.ReactivateOn != nil && !now.Before(*u.ReactivateOn) {
		return false
	}
	return true
}
