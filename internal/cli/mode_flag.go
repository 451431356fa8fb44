package cli

import (
	"github.com/alexanderramin/outings/internal/domain"
	"github.com/spf13/pflag"
)

// modeValue adapts domain.Mode to a pflag.Value so --mode is validated at
// parse time.
type modeValue struct {
	mode *domain.Mode
	set  bool
}

var _ pflag.Value = (*modeValue)(nil)

func newModeValue(m *domain.Mode) *modeValue {
	return &modeValue{mode: m}
}

func (v *modeValue) String() string {
	if v.mode == nil {
		return ""
	}
	return string(*v.mode)
}

func (v *modeValue) Set(s string) error {
	m, err := domain.ParseMode(s)
	if err != nil {
		return err
	}
	*v.mode = m
	v.set = true
	return nil
}

func (v *modeValue) Type() string { return "mode" }
