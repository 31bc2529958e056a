package logic

import (
	"regexp"
	"strings"

	"github.com/esportle/esportle-api/internal/models"
)

// Series is a recurring competition. Importance ranks series for
// achievement scoring only.
type Series struct {
	Name       string
	Region     models.Region
	Importance int
}

var (
	SeriesWorlds     = Series{Name: "Worlds", Region: models.RegionInternational, Importance: 17}
	SeriesMSI        = Series{Name: "MSI", Region: models.RegionInternational, Importance: 16}
	SeriesFirstStand = Series{Name: "First Stand", Region: models.RegionInternational, Importance: 15}
	SeriesEWC        = Series{Name: "Esports World Cup", Region: models.RegionInternational, Importance: 15}
	SeriesLCK        = Series{Name: "LCK", Region: models.RegionKorea, Importance: 8}
	SeriesLPL        = Series{Name: "LPL", Region: models.RegionChina, Importance: 7}
	SeriesLEC        = Series{Name: "LEC", Region: models.RegionEU, Importance: 6}
	SeriesLCS        = Series{Name: "LCS", Region: models.RegionNA, Importance: 5}
	SeriesLTA        = Series{Name: "LTA Championship / Cross-Conference", Region: models.RegionInternational, Importance: 5}
	SeriesASI        = Series{Name: "Asia Invitational", Region: models.RegionInternational, Importance: 4}
	SeriesIEM        = Series{Name: "IEM", Region: models.RegionInternational, Importance: 4}
	SeriesMSC        = Series{Name: "Mid-Season Cup", Region: models.RegionInternational, Importance: 4}
	SeriesIGNPL      = Series{Name: "IGN Pro League", Region: models.RegionInternational, Importance: 4}
	SeriesLMS        = Series{Name: "LMS", Region: models.RegionTaiwan, Importance: 2}
	SeriesGPL        = Series{Name: "GPL", Region: models.RegionSoutheastAsia, Importance: 2}
	SeriesLCP        = Series{Name: "LCP", Region: models.RegionAsiaPacific, Importance: 2}
	SeriesCBLOL      = Series{Name: "CBLOL", Region: models.RegionBrazil, Importance: 1}
)

type seriesRule struct {
	pattern *regexp.Regexp
	series  Series
}

// Order matters: regional LTA splits must be tested before the LTA
// championship rule, and lcs/europe before the generic lcs rule.
var seriesRules = []seriesRule{
	{regexp.MustCompile(`(?i)^asia_invitational/`), SeriesASI},
	{regexp.MustCompile(`(?i)^(champions|lck)/`), SeriesLCK},
	{regexp.MustCompile(`(?i)^esports_world_cup/`), SeriesEWC},
	{regexp.MustCompile(`(?i)^first_stand_tournament/`), SeriesFirstStand},
	{regexp.MustCompile(`(?i)^(gpl|garena_premier_league)/`), SeriesGPL},
	{regexp.MustCompile(`(?i)^ign_proleague`), SeriesIGNPL},
	{regexp.MustCompile(`(?i)^intel_extreme_masters/`), SeriesIEM},
	{regexp.MustCompile(`(?i)^lcp/`), SeriesLCP},
	{regexp.MustCompile(`(?i)^(lec|lcs/europe)/`), SeriesLEC},
	{regexp.MustCompile(`(?i)^(lcs/(north_america|\d{4})/|lta/\d{4}/split_\d/north)`), SeriesLCS},
	{regexp.MustCompile(`(?i)^lms/`), SeriesLMS},
	{regexp.MustCompile(`(?i)^lpl/`), SeriesLPL},
	{regexp.MustCompile(`(?i)^(cblol/|lta/\d{4}/split_\d/south)`), SeriesCBLOL},
	{regexp.MustCompile(`(?i)^lta/\d{4}/(cross-conference|championship)`), SeriesLTA},
	{regexp.MustCompile(`(?i)^mid-season_cup/`), SeriesMSC},
	{regexp.MustCompile(`(?i)^mid-season_invitational/`), SeriesMSI},
	{regexp.MustCompile(`(?i)^world_championship/`), SeriesWorlds},
}

// Classify maps a tournament path identifier to its series. A nil result
// means importance 0 and unknown region, never an error.
func Classify(identifier string) *Series {
	for _, rule := range seriesRules {
		if rule.pattern.MatchString(identifier) {
			s := rule.series
			return &s
		}
	}
	return nil
}

// Importance returns the series importance of identifier, 0 when unclassified.
func Importance(identifier string) int {
	if s := Classify(identifier); s != nil {
		return s.Importance
	}
	return 0
}

// TournamentRegion resolves a tournament's region from its series, falling
// back to the stored region.
func TournamentRegion(t models.Tournament) models.Region {
	if s := Classify(t.ID); s != nil {
		return s.Region
	}
	if t.Region != "" {
		return t.Region
	}
	return models.RegionUnknown
}

var roleAliases = map[string]models.Role{
	"top":      models.RoleTop,
	"toplane":  models.RoleTop,
	"top lane": models.RoleTop,
	"jungle":   models.RoleJungle,
	"jungler":  models.RoleJungle,
	"jg":       models.RoleJungle,
	"jgl":      models.RoleJungle,
	"mid":      models.RoleMid,
	"middle":   models.RoleMid,
	"mid lane": models.RoleMid,
	"midlane":  models.RoleMid,
	"bot":      models.RoleBot,
	"bottom":   models.RoleBot,
	"adc":      models.RoleBot,
	"ad carry": models.RoleBot,
	"carry":    models.RoleBot,
	"support":  models.RoleSupport,
	"sup":      models.RoleSupport,
	"supp":     models.RoleSupport,
	"p1":       models.RoleTop,
	"p2":       models.RoleJungle,
	"p3":       models.RoleMid,
	"p4":       models.RoleBot,
	"p5":       models.RoleSupport,
}

// NormalizeRole maps a role alias to its canonical role. ok is false for
// unrecognised aliases.
func NormalizeRole(alias string) (role models.Role, ok bool) {
	role, ok = roleAliases[strings.ToLower(strings.TrimSpace(alias))]
	return role, ok
}
