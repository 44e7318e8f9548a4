// Package pdfsvc renders order export documents with gofpdf.
package pdfsvc

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"

	"github.com/pedidosgs/backend/core"
	"github.com/pedidosgs/backend/core/order"
)

const (
	marginLeft = 40.0
	marginTop  = 40.0
	lineHeight = 14.0
	pageBottom = 60.0
)

type Renderer struct {
	title string
}

var _ order.DocumentRenderer = (*Renderer)(nil)

func NewRenderer(conf *core.Config) *Renderer {
	return &Renderer{title: "Order - " + conf.AppName}
}

// RenderOrder lays out the fixed one-or-more-page order document: school and
// address block, garment colors, delivery dates, both rosters, comments.
// Long rosters and comments paginate.
func (r *Renderer) RenderOrder(d order.Detail) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "Letter", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	_, pageHeight := pdf.GetPageSize()
	pdf.AddPage()
	y := marginTop

	line := func(x float64, text string) {
		pdf.Text(x, y, tr(text))
		y += lineHeight
		if y > pageHeight-pageBottom {
			pdf.AddPage()
			y = marginTop
		}
	}
	dash := func(s string) string {
		if s == "" {
			return "—"
		}
		return s
	}

	pdf.SetFont("Helvetica", "B", 14)
	line(marginLeft, r.title)
	y += lineHeight / 2

	pdf.SetFont("Helvetica", "", 10)
	line(marginLeft, fmt.Sprintf("School: %s  |  City: %s  |  Grade: %s",
		d.SchoolName, dash(d.SchoolCity.String), dash(d.SchoolGrade.String)))
	line(marginLeft, fmt.Sprintf("Contact: %s  Phone: %s", dash(d.Contact.String), dash(d.Phone.String)))
	line(marginLeft, fmt.Sprintf("Address: %s %s ZIP %s %s",
		d.Address.String, d.Neighborhood.String, d.PostalCode.String, d.State.String))
	line(marginLeft, fmt.Sprintf("Courier: %s  |  Delivery: %s",
		dash(d.CourierName.String), dash(d.DeliveryMode)))
	line(marginLeft, fmt.Sprintf("Girls' socks: %s  Girls' shoes: %s  Boys' shoes: %s",
		dash(d.SockColorGirls.String), dash(d.ShoeColorGirls.String), dash(d.ShoeColorBoys.String)))
	line(marginLeft, fmt.Sprintf("Bows: %s  Trousers: %s  Badges to embroider: %d",
		dash(d.BowColor.String), dash(d.TrouserColor.String), d.EmbroideryCount))
	dates := "—"
	if len(d.DeliveryDates) > 0 {
		dates = strings.Join(d.DeliveryDates, ", ")
	}
	line(marginLeft, "Delivery dates: "+dates)
	y += lineHeight / 2

	group := func(title string, entries []order.RosterEntry) {
		pdf.SetFont("Helvetica", "B", 12)
		line(marginLeft, title)
		pdf.SetFont("Helvetica", "", 10)
		for _, entry := range entries {
			line(marginLeft+10, fmt.Sprintf("- %s (Hair: %s)", entry.Name, entry.HairColor))
		}
	}
	group("Girls", d.Girls)
	y += lineHeight / 2
	group("Boys", d.Boys)

	y += lineHeight / 2
	pdf.SetFont("Helvetica", "B", 12)
	line(marginLeft, "Comments")
	pdf.SetFont("Helvetica", "", 10)
	for _, commentLine := range strings.Split(d.Comment, "\n") {
		line(marginLeft+10, core.Truncate(commentLine, 100))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "writing PDF")
	}
	return buf.Bytes(), nil
}
