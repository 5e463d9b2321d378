package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/cisagov/gophish-test/prompt"
	"github.com/cisagov/gophish-test/types"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockGophishClient struct {
	Campaigns         []types.Campaign
	GetErr            error
	GroupErr          error
	CampaignErrAt     int
	PostedGroups      []types.Group
	PostedCampaigns   []types.Campaign
	GetCampaignsCalls int
}

func (m *mockGophishClient) GetCampaigns(ctx context.Context) ([]types.Campaign, error) {
	m.GetCampaignsCalls++
	return m.Campaigns, m.GetErr
}

func (m *mockGophishClient) PostGroup(ctx context.Context, group types.Group) (*types.Group, error) {
	m.PostedGroups = append(m.PostedGroups, group)
	if m.GroupErr != nil {
		return nil, m.GroupErr
	}
	return &group, nil
}

func (m *mockGophishClient) PostCampaign(ctx context.Context, campaign types.Campaign) (*types.Campaign, error) {
	m.PostedCampaigns = append(m.PostedCampaigns, campaign)
	if m.CampaignErrAt > 0 && len(m.PostedCampaigns) == m.CampaignErrAt {
		return nil, fmt.Errorf("creating campaign %s: duplicate name", campaign.Name)
	}
	return &campaign, nil
}

func originalCampaigns() []types.Campaign {
	return []types.Campaign{
		{
			ID:       7,
			Name:     "RV1234-C1",
			Page:     &types.Page{ID: 3, Name: "PageA"},
			Template: &types.Template{ID: 4, Name: "TemplateA", Subject: "Hello"},
			SMTP:     &types.SMTP{ID: 5, Name: "SmtpA", FromAddress: "it@example.com"},
			URL:      "http://x",
			Groups:   []types.GroupRef{{Name: "RV1234-G1"}},
		},
		{
			ID:       8,
			Name:     "RV1234-C2",
			Page:     &types.Page{Name: "PageB"},
			Template: &types.Template{Name: "TemplateB"},
			SMTP:     &types.SMTP{Name: "SmtpB"},
			URL:      "http://y",
		},
		{
			ID:   9,
			Name: "RV5555-C1",
			URL:  "http://z",
		},
	}
}

func newTestCampaignClient(gophishClient *mockGophishClient, answers ...string) (*TestCampaignClient, *prompt.ScriptedPrompter, *logtest.Hook) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	prompter := prompt.NewScriptedPrompter(answers...)
	client := NewTestCampaignClient(gophishClient, prompt.NewInputClient(prompter, logger), false, logger)
	return client, prompter, hook
}

func warnings(hook *logtest.Hook) []string {
	messages := []string{}
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel {
			messages = append(messages, entry.Message)
		}
	}
	return messages
}

func TestBuildTestCampaign(t *testing.T) {
	original := originalCampaigns()[0]

	campaign := BuildTestCampaign(original, "Test-RV1234-G1")

	assert.Equal(t, types.Campaign{
		Name:     "Test-RV1234-C1",
		Groups:   []types.GroupRef{{Name: "Test-RV1234-G1"}},
		Page:     &types.Page{Name: "PageA"},
		Template: &types.Template{Name: "TemplateA"},
		SMTP:     &types.SMTP{Name: "SmtpA"},
		URL:      "http://x",
	}, campaign)
}

func TestBuildTestCampaign_JSONCarriesOnlyNames(t *testing.T) {
	campaign := BuildTestCampaign(originalCampaigns()[0], "Test-RV1234-G1")

	payload, err := json.Marshal(campaign)

	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "Test-RV1234-C1",
		"groups": [{"name": "Test-RV1234-G1"}],
		"page": {"name": "PageA"},
		"template": {"name": "TemplateA"},
		"smtp": {"name": "SmtpA"},
		"url": "http://x"
	}`, string(payload))
}

func TestBuildTestCampaign_MissingReferences(t *testing.T) {
	campaign := BuildTestCampaign(types.Campaign{Name: "RV1234-C9", URL: "http://x"}, "Test-RV1234-G1")

	assert.Equal(t, "Test-RV1234-C9", campaign.Name)
	assert.Equal(t, "", campaign.Page.Name)
	assert.Equal(t, "", campaign.Template.Name)
	assert.Equal(t, "", campaign.SMTP.Name)
}

func TestTestGroupNameFormat(t *testing.T) {
	assert.Equal(t, "Test-RV1234-G1", TestGroupName("RV1234"))
}

func TestGetCampaigns_FiltersByAssessment(t *testing.T) {
	gophishClient := &mockGophishClient{Campaigns: originalCampaigns()}
	client, _, _ := newTestCampaignClient(gophishClient)

	campaigns, err := client.GetCampaigns(context.Background(), "RV1234")

	require.NoError(t, err)
	require.Len(t, campaigns, 2)
	assert.Equal(t, "RV1234-C1", campaigns[0].Name)
	assert.Equal(t, "RV1234-C2", campaigns[1].Name)
}

func TestGetCampaigns_Error(t *testing.T) {
	gophishClient := &mockGophishClient{GetErr: fmt.Errorf("connection reset")}
	client, _, _ := newTestCampaignClient(gophishClient)

	_, err := client.GetCampaigns(context.Background(), "RV1234")

	assert.Error(t, err)
}

func TestCollectTargets_DoneImmediately(t *testing.T) {
	client, prompter, _ := newTestCampaignClient(&mockGophishClient{}, "done")

	targets, err := client.CollectTargets()

	require.NoError(t, err)
	assert.Empty(t, targets)
	assert.Equal(t, []string{"Enter First Name: "}, prompter.Prompts)
}

func TestCollectTargets_MultipleTargets(t *testing.T) {
	client, prompter, _ := newTestCampaignClient(&mockGophishClient{},
		"Jane", "Doe", "jane@example.com", "Finance",
		"John", "Roe", "john@example.com", "IT",
		"done",
	)

	targets, err := client.CollectTargets()

	require.NoError(t, err)
	assert.Equal(t, []types.Target{
		{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Position: "Finance"},
		{FirstName: "John", LastName: "Roe", Email: "john@example.com", Position: "IT"},
	}, targets)
	assert.Equal(t, 0, prompter.Remaining())
	assert.Equal(t, "Enter First Name or 'done': ", prompter.Prompts[len(prompter.Prompts)-1])
}

func TestCollectTargets_DoneIsCaseSensitive(t *testing.T) {
	client, _, _ := newTestCampaignClient(&mockGophishClient{},
		"Done", "Smith", "done@example.com", "Org",
		"done",
	)

	targets, err := client.CollectTargets()

	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, "Done", targets[0].FirstName)
}

func TestCollectTargets_RepromptsInvalidEmail(t *testing.T) {
	client, prompter, hook := newTestCampaignClient(&mockGophishClient{},
		"Jane", "Doe", "bad", "also-bad", "a@b.com", "Org",
		"done",
	)

	targets, err := client.CollectTargets()

	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, "a@b.com", targets[0].Email)
	assert.Equal(t, []string{"Invalid Email: bad", "Invalid Email: also-bad"}, warnings(hook))
	assert.Equal(t, []string{"Invalid Email: bad", "Invalid Email: also-bad"}, prompter.Notices)

	emailPrompts := 0
	for _, message := range prompter.Prompts {
		if message == "Enter Email: " {
			emailPrompts++
		}
	}
	assert.Equal(t, 3, emailPrompts)
}

func TestCollectTargets_InputAborted(t *testing.T) {
	client, _, _ := newTestCampaignClient(&mockGophishClient{}, "Jane", "Doe")

	_, err := client.CollectTargets()

	assert.ErrorIs(t, err, prompt.ErrInputAborted)
}

func TestRun_NoMatchingCampaigns(t *testing.T) {
	gophishClient := &mockGophishClient{Campaigns: []types.Campaign{{Name: "RV1234-C1"}, {Name: "RV1234-C2"}}}
	client, prompter, hook := newTestCampaignClient(gophishClient)

	result, err := client.Run(context.Background(), "RV9999")

	require.NoError(t, err)
	assert.Empty(t, result.GroupName)
	assert.Empty(t, result.Campaigns)
	assert.Empty(t, gophishClient.PostedGroups)
	assert.Empty(t, gophishClient.PostedCampaigns)
	assert.Empty(t, prompter.Prompts)
	assert.Equal(t, []string{"No Campaigns found for RV9999"}, warnings(hook))
}

func TestRun_DuplicatesEveryMatchedCampaign(t *testing.T) {
	gophishClient := &mockGophishClient{Campaigns: originalCampaigns()}
	client, _, _ := newTestCampaignClient(gophishClient,
		"Jane", "Doe", "jane@example.com", "Finance",
		"done",
	)

	result, err := client.Run(context.Background(), "RV1234")

	require.NoError(t, err)
	assert.Equal(t, "Test-RV1234-G1", result.GroupName)
	assert.Equal(t, []string{"Test-RV1234-C1", "Test-RV1234-C2"}, result.Campaigns)

	require.Len(t, gophishClient.PostedGroups, 1)
	assert.Equal(t, "Test-RV1234-G1", gophishClient.PostedGroups[0].Name)
	assert.Len(t, gophishClient.PostedGroups[0].Targets, 1)

	require.Len(t, gophishClient.PostedCampaigns, 2)
	for _, campaign := range gophishClient.PostedCampaigns {
		assert.Equal(t, []types.GroupRef{{Name: "Test-RV1234-G1"}}, campaign.Groups)
	}
	assert.Equal(t, "PageB", gophishClient.PostedCampaigns[1].Page.Name)
	assert.Equal(t, "http://y", gophishClient.PostedCampaigns[1].URL)
}

func TestRun_EmptyGroupIsAllowed(t *testing.T) {
	gophishClient := &mockGophishClient{Campaigns: originalCampaigns()}
	client, _, _ := newTestCampaignClient(gophishClient, "done")

	_, err := client.Run(context.Background(), "RV1234")

	require.NoError(t, err)
	require.Len(t, gophishClient.PostedGroups, 1)
	assert.Empty(t, gophishClient.PostedGroups[0].Targets)

	payload, err := json.Marshal(gophishClient.PostedGroups[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"name": "Test-RV1234-G1", "targets": []}`, string(payload))
}

func TestRun_GroupFailureStopsBeforeCampaigns(t *testing.T) {
	gophishClient := &mockGophishClient{Campaigns: originalCampaigns(), GroupErr: fmt.Errorf("group exists")}
	client, _, _ := newTestCampaignClient(gophishClient, "done")

	_, err := client.Run(context.Background(), "RV1234")

	assert.Error(t, err)
	assert.Empty(t, gophishClient.PostedCampaigns)
}

func TestRun_AbortsOnFirstCampaignFailure(t *testing.T) {
	campaigns := originalCampaigns()
	campaigns = append(campaigns, types.Campaign{Name: "RV1234-C3", URL: "http://w"})
	gophishClient := &mockGophishClient{Campaigns: campaigns, CampaignErrAt: 2}
	client, _, _ := newTestCampaignClient(gophishClient, "done")

	result, err := client.Run(context.Background(), "RV1234")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Test-RV1234-C2")
	assert.Len(t, gophishClient.PostedCampaigns, 2)
	assert.Equal(t, []string{"Test-RV1234-C1"}, result.Campaigns)
	assert.Len(t, gophishClient.PostedGroups, 1)
}

func TestRun_ConfirmDeclined(t *testing.T) {
	gophishClient := &mockGophishClient{Campaigns: originalCampaigns()}
	client, prompter, _ := newTestCampaignClient(gophishClient,
		"Jane", "Doe", "jane@example.com", "Finance",
		"done",
		"n",
	)
	client.Confirm = true

	result, err := client.Run(context.Background(), "RV1234")

	require.NoError(t, err)
	assert.Empty(t, result.Campaigns)
	assert.Empty(t, gophishClient.PostedGroups)
	assert.Empty(t, gophishClient.PostedCampaigns)
	assert.Equal(t, "Enter First Name: ", prompter.Prompts[0])
	assert.Equal(t, "Send test campaigns to 1 targets now? (y/n) ", prompter.Prompts[len(prompter.Prompts)-1])
}

func TestRun_ConfirmAccepted(t *testing.T) {
	gophishClient := &mockGophishClient{Campaigns: originalCampaigns()}
	client, prompter, _ := newTestCampaignClient(gophishClient, "done", "y")
	client.Confirm = true

	result, err := client.Run(context.Background(), "RV1234")

	require.NoError(t, err)
	assert.Len(t, result.Campaigns, 2)
	assert.Len(t, gophishClient.PostedGroups, 1)
	assert.Equal(t, []string{"Enter First Name: ", "Send test campaigns to 0 targets now? (y/n) "}, prompter.Prompts)
}

func TestCollectTargets_InvalidEmailShownAtErrorLevel(t *testing.T) {
	client, prompter, hook := newTestCampaignClient(&mockGophishClient{},
		"Jane", "Doe", "bad", "a@b.com", "Org",
		"done",
	)
	client.Logger.SetLevel(logrus.ErrorLevel)

	targets, err := client.CollectTargets()

	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Empty(t, hook.AllEntries())
	assert.Equal(t, []string{"Invalid Email: bad"}, prompter.Notices)
}
