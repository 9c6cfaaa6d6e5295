package ledger

import (
	"errors"
	"fmt"

	"github.com/ElPoteRD/CuentaClaras-sub000/shared/models"
	"github.com/shopspring/decimal"
)

// State is the lifecycle of one transaction's effect on its account balance.
type State int

const (
	Unposted State = iota
	Posted
	Reversed
)

func (s State) String() string {
	switch s {
	case Unposted:
		return "unposted"
	case Posted:
		return "posted"
	case Reversed:
		return "reversed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var ErrInvalidTransition = errors.New("invalid posting transition")

// Effect is the signed change a transaction applies to its account balance.
func Effect(amount decimal.Decimal, typ models.TransactionType) decimal.Decimal {
	if typ == models.TransactionIncome {
		return amount
	}
	return amount.Neg()
}

// posting applies a transaction's effect at most once and undoes it at most once.
type posting struct {
	amount decimal.Decimal
	typ    models.TransactionType
	state  State
}

func newPosting(amount decimal.Decimal, typ models.TransactionType) *posting {
	return &posting{amount: amount, typ: typ, state: Unposted}
}

// postedFrom rebuilds the posting of a stored transaction; a stored row has
// always been applied.
func postedFrom(t *models.Transaction) *posting {
	return &posting{amount: t.Amount, typ: t.Type, state: Posted}
}

func (p *posting) post(balance decimal.Decimal) (decimal.Decimal, error) {
	if p.state != Unposted {
		return balance, fmt.Errorf("%w: post from %s", ErrInvalidTransition, p.state)
	}
	p.state = Posted
	return balance.Add(Effect(p.amount, p.typ)), nil
}

func (p *posting) reverse(balance decimal.Decimal) (decimal.Decimal, error) {
	if p.state != Posted {
		return balance, fmt.Errorf("%w: reverse from %s", ErrInvalidTransition, p.state)
	}
	p.state = Reversed
	return balance.Sub(Effect(p.amount, p.typ)), nil
}
