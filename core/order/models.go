package order

import (
	"strconv"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/pedidosgs/backend/core"
	"github.com/pedidosgs/backend/core/user"
)

// Statuses form a fixed ordered pipeline plus a terminal Cancelled. The
// pipeline is informational only: any status may be set from any other by an
// admin (no transition graph is enforced).
const (
	StatusNew          = "New"
	StatusUnderReview  = "Under Review"
	StatusApproved     = "Approved"
	StatusInProduction = "In Production"
	StatusReadyToShip  = "Ready to Ship"
	StatusShipped      = "Shipped"
	StatusDelivered    = "Delivered"
	StatusCancelled    = "Cancelled"
)

var AllStatuses = []string{
	StatusNew,
	StatusUnderReview,
	StatusApproved,
	StatusInProduction,
	StatusReadyToShip,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

// Delivery modes
const (
	DeliveryPickup = "pickup"
	DeliveryHome   = "home-delivery"
)

const maxRosterNameLen = 30

// RosterEntry is one student line of the girls' or boys' group.
type RosterEntry struct {
	Name      string `json:"name"`
	HairColor string `json:"hair_color"`
}

// ParseRoster zips the parallel name/hair-color input lists into roster
// entries, dropping entries whose trimmed name is empty and truncating names
// to 30 characters.
func ParseRoster(names, hairColors []string) []RosterEntry {
	entries := make([]RosterEntry, 0, len(names))
	for i, name := range names {
		name = core.CleanString(name)
		if name == "" {
			continue
		}
		var hair string
		if i < len(hairColors) {
			hair = hairColors[i]
		}
		entries = append(entries, RosterEntry{
			Name:      core.Truncate(name, maxRosterNameLen),
			HairColor: hair,
		})
	}
	return entries
}

// ParseCount parses a non-negative integer form value, defaulting to 0 on
// missing or invalid input.
func ParseCount(s string) int {
	n, err := strconv.Atoi(core.CleanString(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

type Order struct {
	ID       int `json:"id"`
	SchoolID int `json:"school_id"`

	// city/grade snapshot taken at creation
	City  string `json:"city"`
	Grade string `json:"grade"`

	Girls []RosterEntry `json:"girls"`
	Boys  []RosterEntry `json:"boys"`

	// global garment-color choices
	SockColorGirls null.String `json:"sock_color_girls"`
	ShoeColorGirls null.String `json:"shoe_color_girls"`
	ShoeColorBoys  null.String `json:"shoe_color_boys"`
	BowColor       null.String `json:"bow_color"`
	TrouserColor   null.String `json:"trouser_color"`

	EmbroideryCount int      `json:"embroidery_count"`
	DeliveryDates   []string `json:"delivery_dates"`
	DeliveryMode    string   `json:"delivery_mode"` // pickup | home-delivery

	Comment   string    `json:"comment"`
	Status    string    `json:"status"`
	CourierID null.Int  `json:"courier_id"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// NewOrder carries the raw order form: parallel roster lists, garment
// colors, delivery metadata. No field is required; invalid numeric input
// defaults to zero.
type NewOrder struct {
	City    string `json:"city" form:"city"`
	Grade   string `json:"grade" form:"grade"`
	Comment string `json:"comment" form:"comment"`

	GirlNames      []string `json:"girl_names" form:"girl_names"`
	GirlHairColors []string `json:"girl_hair_colors" form:"girl_hair_colors"`
	BoyNames       []string `json:"boy_names" form:"boy_names"`
	BoyHairColors  []string `json:"boy_hair_colors" form:"boy_hair_colors"`

	SockColorGirls string `json:"sock_color_girls" form:"sock_color_girls"`
	ShoeColorGirls string `json:"shoe_color_girls" form:"shoe_color_girls"`
	ShoeColorBoys  string `json:"shoe_color_boys" form:"shoe_color_boys"`
	BowColor       string `json:"bow_color" form:"bow_color"`
	TrouserColor   string `json:"trouser_color" form:"trouser_color"`

	EmbroideryCount string   `json:"embroidery_count" form:"embroidery_count"`
	DeliveryDates   []string `json:"delivery_dates" form:"delivery_dates"`
	DeliveryMode    string   `json:"delivery_mode" form:"delivery_mode"`
}

func (no *NewOrder) Clean() {
	no.City = core.CleanString(no.City)
	no.Grade = core.CleanString(no.Grade)
	no.Comment = core.CleanString(no.Comment)
	no.SockColorGirls = core.CleanString(no.SockColorGirls)
	no.ShoeColorGirls = core.CleanString(no.ShoeColorGirls)
	no.ShoeColorBoys = core.CleanString(no.ShoeColorBoys)
	no.BowColor = core.CleanString(no.BowColor)
	no.TrouserColor = core.CleanString(no.TrouserColor)
	no.DeliveryMode = core.CleanString(no.DeliveryMode)
}

// Summary is an order joined with its school and courier names for listings.
type Summary struct {
	Order
	SchoolName  string      `json:"school_name"`
	SchoolCity  null.String `json:"school_city"`
	CourierName null.String `json:"courier_name"`
}

// Detail is the full joined view of one order used by the detail page and
// the document export.
type Detail struct {
	Order

	SchoolName  string      `json:"school_name"`
	SchoolCity  null.String `json:"school_city"`
	SchoolGrade null.String `json:"school_grade"`
	Contact     null.String `json:"contact"`
	Phone       null.String `json:"phone"`

	Address      null.String `json:"address"`
	Neighborhood null.String `json:"neighborhood"`
	PostalCode   null.String `json:"postal_code"`
	State        null.String `json:"state"`
	References   null.String `json:"references"`

	DestName         null.String `json:"dest_name"`
	DestPhone        null.String `json:"dest_phone"`
	DestPostalCode   null.String `json:"dest_postal_code"`
	DestNeighborhood null.String `json:"dest_neighborhood"`
	DestAddress      null.String `json:"dest_address"`
	DestEmail        null.String `json:"dest_email"`

	CourierName null.String `json:"courier_name"`

	SchoolUserID  int      `json:"-"`
	SalespersonID null.Int `json:"-"`
}

// ViewableBy applies the ownership gate: a school must own the order's
// school, a salesperson must be assigned to it, an admin bypasses.
func (d Detail) ViewableBy(usr user.User) bool {
	switch usr.Role {
	case user.RoleAdmin:
		return true
	case user.RoleSchool:
		return d.SchoolUserID == usr.ID
	case user.RoleSalesperson:
		return d.SalespersonID.Valid && d.SalespersonID.Int == usr.ID
	}
	return false
}

// Stats are the admin dashboard aggregates, computed live.
type Stats struct {
	Orders      int       `json:"orders"`
	Schools     int       `json:"schools"`
	Salespeople int       `json:"salespeople"`
	Recent      []Summary `json:"recent"`
}
