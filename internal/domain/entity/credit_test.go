package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"suretyledger-service/internal/domain/entity"
)

func TestFaultPayout(t *testing.T) {
	cases := []struct {
		payment int64
		credit  int64
	}{
		{payment: 100, credit: 150},
		{payment: 101, credit: 151}, // 303/2 truncates
		{payment: 1, credit: 1},
		{payment: 0, credit: 0},
		{payment: entity.UnitScale, credit: 1_500_000},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.credit, entity.FaultPayout(tc.payment), "payment %d", tc.payment)
	}
}

func TestParseAirlineState(t *testing.T) {
	for _, state := range []entity.AirlineState{
		entity.AirlineRegistering,
		entity.AirlineRegistered,
		entity.AirlineActived,
	} {
		assert.Equal(t, state, entity.ParseAirlineState(state.String()))
	}
}
