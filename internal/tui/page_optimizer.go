package tui

import (
	"strconv"
	"strings"

	"github.com/theirongolddev/cloud9/internal/api"
	"github.com/theirongolddev/cloud9/internal/tui/components"
)

func (a App) renderOptimizerTab(cw int) string {
	var b strings.Builder
	b.WriteString(a.pageHeading("Cloud Resource Optimization Recommendations"))
	b.WriteString("\n")

	st := a.widgets.optimizer
	body := stateBody(a.spinner, st, func(recs []api.Recommendation) string {
		if len(recs) == 0 {
			return components.MutedText("No recommendations.")
		}
		rows := make([][]string, len(recs))
		for i, r := range recs {
			rows[i] = []string{r.ResourceID, strconv.Itoa(r.ClusterID), r.Recommendation}
		}
		return components.Table([]string{"Resource ID", "Cluster ID", "Recommendation"}, rows, components.CardInnerWidth(cw))
	})
	b.WriteString(components.ContentCard("Recommendations", body, cw))
	return b.String()
}
