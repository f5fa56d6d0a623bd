package orders

import (
	"fmt"
	"strings"

	"github.com/speps/go-hashids/v2"
)

const codePrefix = "ORD-"

// CodeGenerator turns the order sequence into a short public code that does
// not reveal how many orders a store has taken.
type CodeGenerator struct {
	h *hashids.HashID
}

func NewCodeGenerator(salt string) (*CodeGenerator, error) {
	d := hashids.NewData()
	d.Salt = salt
	d.MinLength = 8

	h, err := hashids.NewWithData(d)
	if err != nil {
		return nil, fmt.Errorf("order code generator: %w", err)
	}
	return &CodeGenerator{h: h}, nil
}

func (g *CodeGenerator) Encode(seq int64) string {
	s, err := g.h.EncodeInt64([]int64{seq})
	if err != nil {
		return ""
	}
	return codePrefix + s
}

func (g *CodeGenerator) Decode(code string) (int64, error) {
	raw, ok := strings.CutPrefix(code, codePrefix)
	if !ok || raw == "" {
		return 0, fmt.Errorf("invalid order code %q", code)
	}
	nums, err := g.h.DecodeInt64WithError(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid order code %q: %w", code, err)
	}
	if len(nums) != 1 {
		return 0, fmt.Errorf("invalid order code %q", code)
	}
	return nums[0], nil
}
