package matcher

import (
	"strings"

	"github.com/cisagov/gophish-test/types"
)

// MatchAssessmentID reports whether name belongs to the assessment. Elements
// created for an assessment are named "<assessmentID>-<suffix>", so the ID
// must start the name and be followed immediately by a hyphen.
func MatchAssessmentID(assessmentID string, name string) bool {
	if assessmentID == "" {
		return false
	}
	return strings.HasPrefix(name, assessmentID+"-")
}

func FilterCampaigns(assessmentID string, campaigns []types.Campaign) []types.Campaign {
	matched := []types.Campaign{}
	for _, campaign := range campaigns {
		if MatchAssessmentID(assessmentID, campaign.Name) {
			matched = append(matched, campaign)
		}
	}
	return matched
}
