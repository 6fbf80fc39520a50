// internal/client/params.go
package client

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
)

type param struct {
	name  string
	value string
}

// Params is an ordered set of query parameters. Optional inputs given as nil
// pointers are skipped, so the vendor default applies for them. Every method
// returns a new Params and leaves the receiver untouched.
type Params struct {
	pairs []param
}

func NewParams() Params {
	return Params{}
}

func (p Params) Set(name, value string) Params {
	return Params{pairs: append(slices.Clip(p.pairs), param{name: name, value: value})}
}

func (p Params) AddString(name string, value *string) Params {
	if value == nil {
		return p
	}
	return p.Set(name, *value)
}

func (p Params) AddInt(name string, value *int) Params {
	if value == nil {
		return p
	}
	return p.Set(name, strconv.Itoa(*value))
}

func (p Params) AddBool(name string, value *bool) Params {
	if value == nil {
		return p
	}
	return p.Set(name, strconv.FormatBool(*value))
}

func (p Params) Len() int {
	return len(p.pairs)
}

func (p Params) Get(name string) (string, bool) {
	for _, pair := range p.pairs {
		if pair.name == name {
			return pair.value, true
		}
	}
	return "", false
}

// Encode keeps declaration order, unlike url.Values.Encode which sorts by key.
func (p Params) Encode() string {
	var sb strings.Builder
	for i, pair := range p.pairs {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(pair.name))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(pair.value))
	}
	return sb.String()
}
