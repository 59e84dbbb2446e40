package news

import "strings"

// Category classifies how wide a story's impact reaches.
type Category string

const (
	CategoryCompany Category = "company"
	CategorySector  Category = "sector"
	CategoryMarket  Category = "market"
)

// Classification odds and the discount applied to market-wide shocks.
const (
	companyOdds      = 0.60
	sectorOdds       = 0.30
	marketImpactMult = 0.7
)

// template pairs a headline with a fixed signed impact magnitude. The
// placeholder is substituted with strings.ReplaceAll so names containing
// formatting metacharacters pass through untouched.
type template struct {
	headline string
	impact   float64
}

const placeholder = "{name}"

func (t template) render(name string) string {
	return strings.ReplaceAll(t.headline, placeholder, name)
}

var companyTemplates = []template{
	{"{name} beats quarterly earnings expectations", 0.06},
	{"{name} announces breakthrough product line", 0.08},
	{"{name} lands major government contract", 0.05},
	{"Analysts upgrade {name} to strong buy", 0.04},
	{"{name} expands into new international markets", 0.03},
	{"{name} misses revenue targets", -0.06},
	{"{name} faces regulatory investigation", -0.08},
	{"Key executive departs {name}", -0.04},
	{"{name} recalls flagship product", -0.07},
	{"Analysts downgrade {name} on weak guidance", -0.05},
}

var sectorTemplates = []template{
	{"{name} sector rallies on strong demand outlook", 0.05},
	{"Investment pours into {name} companies", 0.04},
	{"New legislation favors the {name} industry", 0.06},
	{"{name} sector slumps on supply concerns", -0.05},
	{"Rising costs squeeze {name} margins", -0.04},
	{"Regulators tighten rules for {name} firms", -0.06},
}

var marketTemplates = []template{
	{"Markets surge as economic data beats forecasts", 0.06},
	{"Central bank signals easing; stocks climb", 0.05},
	{"Investor confidence lifts the broader market", 0.04},
	{"Markets slide on recession fears", -0.06},
	{"Rate hike worries drag stocks lower", -0.05},
	{"Global tensions rattle the market", -0.04},
}
