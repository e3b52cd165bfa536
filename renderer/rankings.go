package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/heatmap"
	md "github.com/nao1215/markdown"
)

// RankingsMarkdown renders the top adoption and merchant leader rankings.
func RankingsMarkdown(d *heatmap.Dashboard) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H2("Top Crypto Adoption")
	adoption := md.TableSet{Header: []string{"Rank", "Country", "Adoption"}}
	for _, e := range d.TopAdoption {
		adoption.Rows = append(adoption.Rows, []string{fmt.Sprint(e.GlobalRank), e.Country, e.AdoptionRate.Short()})
	}
	doc.Table(adoption)

	doc.H2("Merchant Leaders")
	if len(d.MerchantLeaders) == 0 {
		doc.PlainText("No country has identified merchants yet.")
		return doc.String()
	}
	leaders := md.TableSet{Header: []string{"#", "Country", "Region", "Merchants"}}
	for i, e := range d.MerchantLeaders {
		leaders.Rows = append(leaders.Rows, []string{fmt.Sprint(i + 1), e.Country, e.Region, md.Bold(fmt.Sprint(e.ScaledMerchantCount))})
	}
	doc.Table(leaders)

	return doc.String()
}
