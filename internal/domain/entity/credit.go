package entity

import "time"

// Amounts are integer base units; one nominal unit is UnitScale base units,
// so a 3/2 payout on an odd payment still lands on a whole number of base
// units after floor division.
const UnitScale int64 = 1_000_000

// Credit is the amount owed to a principal after fault-based crediting,
// payable on demand through withdrawal.
type Credit struct {
	Address   string    `bson:"_id"`
	Amount    int64     `bson:"amount"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// FaultPayout computes the credit owed for an insurance payment of p base
// units: floor(p*3/2). Integer truncation is the defined rounding rule.
func FaultPayout(p int64) int64 {
	return p * 3 / 2
}
