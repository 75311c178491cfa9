// Package motes converts between CSPR amounts and motes, the smallest unit
// deploy amounts are written in.
package motes

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/caspercppsdk/casper-cpp-sdk-sub000/bigint"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/sdkerr"
)

const (
	CoinName = "CSPR"
	MinUnit  = "motes"
	// Decimals is the number of decimal places in one CSPR.
	Decimals     = 9
	MotesPerCSPR = 1000000000
)

// FromCSPR converts a decimal CSPR amount such as "2.5" to motes. Amounts
// finer than one mote, negative amounts and amounts past U512 are rejected.
func FromCSPR(cspr string) (*big.Int, error) {
	d, err := decimal.NewFromString(cspr)
	if err != nil {
		return nil, errors.Wrapf(sdkerr.ErrInvalidArgument, "amount %q: %v", cspr, err)
	}
	if d.IsNegative() {
		return nil, errors.Wrapf(sdkerr.ErrInvalidArgument, "amount %q is negative", cspr)
	}
	m := d.Shift(Decimals)
	if !m.Equal(m.Truncate(0)) {
		return nil, errors.Wrapf(sdkerr.ErrInvalidArgument, "amount %q is finer than one mote", cspr)
	}
	n := m.BigInt()
	if !bigint.Fits(n, bigint.U512) {
		return nil, errors.Wrapf(sdkerr.ErrInvalidArgument, "amount %q exceeds U512", cspr)
	}
	return n, nil
}

// ToCSPR renders a motes amount in CSPR without trailing zeros.
func ToCSPR(m *big.Int) string {
	return decimal.NewFromBigInt(m, -Decimals).String()
}

func FromCSPRInt(cspr int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(cspr), big.NewInt(MotesPerCSPR))
}
