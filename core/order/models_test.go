package order

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"

	"github.com/pedidosgs/backend/core/user"
)

func TestParseRoster(t *testing.T) {
	tests := []struct {
		name       string
		names      []string
		hairColors []string
		want       []RosterEntry
	}{
		{name: "empty", names: nil, hairColors: nil, want: []RosterEntry{}},
		{
			name:       "trims names",
			names:      []string{"  Ana Torres  "},
			hairColors: []string{"brown"},
			want:       []RosterEntry{{Name: "Ana Torres", HairColor: "brown"}},
		},
		{
			name:       "drops blank names but keeps positional pairing",
			names:      []string{"Ana", "   ", "", "Luis"},
			hairColors: []string{"brown", "black", "blond", "red"},
			want:       []RosterEntry{{Name: "Ana", HairColor: "brown"}, {Name: "Luis", HairColor: "red"}},
		},
		{
			name:       "truncates long names to 30 chars",
			names:      []string{strings.Repeat("a", 45)},
			hairColors: []string{"brown"},
			want:       []RosterEntry{{Name: strings.Repeat("a", 30), HairColor: "brown"}},
		},
		{
			name:       "missing hair colors default to empty",
			names:      []string{"Ana", "Luis"},
			hairColors: []string{"brown"},
			want:       []RosterEntry{{Name: "Ana", HairColor: "brown"}, {Name: "Luis"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRoster(tt.names, tt.hairColors))
		})
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{name: "valid", in: "12", want: 12},
		{name: "padded", in: " 7 ", want: 7},
		{name: "empty defaults to zero", in: "", want: 0},
		{name: "junk defaults to zero", in: "abc", want: 0},
		{name: "negative defaults to zero", in: "-3", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCount(tt.in))
		})
	}
}

func TestDetail_ViewableBy(t *testing.T) {
	detail := Detail{
		SchoolUserID:  3,
		SalespersonID: null.IntFrom(7),
	}
	tests := []struct {
		name string
		usr  user.User
		want bool
	}{
		{name: "admin sees everything", usr: user.User{ID: 99, Role: user.RoleAdmin}, want: true},
		{name: "owning school", usr: user.User{ID: 3, Role: user.RoleSchool}, want: true},
		{name: "other school", usr: user.User{ID: 4, Role: user.RoleSchool}, want: false},
		{name: "assigned salesperson", usr: user.User{ID: 7, Role: user.RoleSalesperson}, want: true},
		{name: "other salesperson", usr: user.User{ID: 8, Role: user.RoleSalesperson}, want: false},
		{name: "unknown role", usr: user.User{ID: 3, Role: "intern"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detail.ViewableBy(tt.usr))
		})
	}
}

func TestDetail_ViewableBy_unassignedSalesperson(t *testing.T) {
	detail := Detail{SchoolUserID: 3}
	assert.False(t, detail.ViewableBy(user.User{ID: 0, Role: user.RoleSalesperson}))
}
