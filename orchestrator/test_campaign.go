package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cisagov/gophish-test/gophish"
	"github.com/cisagov/gophish-test/matcher"
	"github.com/cisagov/gophish-test/prompt"
	"github.com/cisagov/gophish-test/types"
	"github.com/cisagov/gophish-test/validate"
)

const (
	testPrefix   = "Test-"
	doneSentinel = "done"
)

var ErrCancelled = errors.New("test campaigns cancelled by operator")

type TestCampaignClient struct {
	GophishClient gophish.IGophishClient
	InputClient   *prompt.InputClient
	Confirm       bool
	Logger        *logrus.Logger
}

// Result describes what a run created on the GoPhish server.
type Result struct {
	GroupName string
	Campaigns []string
}

func NewTestCampaignClient(gophishClient gophish.IGophishClient, inputClient *prompt.InputClient, confirm bool, logger *logrus.Logger) *TestCampaignClient {
	return &TestCampaignClient{
		GophishClient: gophishClient,
		InputClient:   inputClient,
		Confirm:       confirm,
		Logger:        logger,
	}
}

// Run duplicates every campaign of the assessment as a "Test-" campaign sent
// to operator-supplied targets. Nothing is created when the assessment has no
// campaigns. The first failed submission aborts the run; anything already
// created stays on the server.
func (client *TestCampaignClient) Run(ctx context.Context, assessmentID string) (*Result, error) {
	campaigns, err := client.GetCampaigns(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	if len(campaigns) == 0 {
		return &Result{}, nil
	}

	return client.CreateTestCampaigns(ctx, campaigns, assessmentID)
}

func (client *TestCampaignClient) GetCampaigns(ctx context.Context, assessmentID string) ([]types.Campaign, error) {
	client.Logger.Info("Gathering Campaigns")
	allCampaigns, err := client.GophishClient.GetCampaigns(ctx)
	if err != nil {
		return nil, err
	}

	assessmentCampaigns := matcher.FilterCampaigns(assessmentID, allCampaigns)

	client.Logger.Debugf("Num Campaigns: %d", len(assessmentCampaigns))
	if len(assessmentCampaigns) == 0 {
		client.Logger.Warnf("No Campaigns found for %s", assessmentID)
	}
	return assessmentCampaigns, nil
}

// CollectTargets prompts for recipients until the first name "done" is given.
func (client *TestCampaignClient) CollectTargets() ([]types.Target, error) {
	targets := []types.Target{}

	firstName, err := client.InputClient.GetInput("Enter First Name: ")
	if err != nil {
		return nil, err
	}

	for firstName != doneSentinel {
		target := types.Target{FirstName: firstName}

		if target.LastName, err = client.InputClient.GetInput("Enter Last Name: "); err != nil {
			return nil, err
		}
		if target.Email, err = client.getEmail(); err != nil {
			return nil, err
		}
		if target.Position, err = client.InputClient.GetInput("Enter Org: "); err != nil {
			return nil, err
		}

		targets = append(targets, target)
		client.Logger.Debugf("Target added: %s", target.Email)

		if firstName, err = client.InputClient.GetInput("Enter First Name or 'done': "); err != nil {
			return nil, err
		}
	}

	return targets, nil
}

func (client *TestCampaignClient) getEmail() (string, error) {
	for {
		email, err := client.InputClient.GetInput("Enter Email: ")
		if err != nil {
			return "", err
		}
		if validate.ValidateEmail(email) {
			return email, nil
		}
		client.InputClient.Warn(fmt.Sprintf("Invalid Email: %s", email))
	}
}

// AddGroup collects the test targets and creates the shared test group. It
// returns the name of the created group, or ErrCancelled when the operator
// declines the confirmation.
func (client *TestCampaignClient) AddGroup(ctx context.Context, assessmentID string) (string, error) {
	client.Logger.Info("Adding Test Group")

	targets, err := client.CollectTargets()
	if err != nil {
		return "", fmt.Errorf("collecting test targets: %w", err)
	}

	if client.Confirm {
		proceed, err := client.InputClient.YesNoPrompt(fmt.Sprintf("Send test campaigns to %d targets now?", len(targets)))
		if err != nil {
			return "", err
		}
		if !proceed {
			return "", ErrCancelled
		}
	}

	group, err := client.GophishClient.PostGroup(ctx, types.Group{
		Name:    TestGroupName(assessmentID),
		Targets: targets,
	})
	if err != nil {
		return "", err
	}

	client.Logger.Debugf("Test Group added: %s (%d targets)", group.Name, len(targets))
	return group.Name, nil
}

func (client *TestCampaignClient) CreateTestCampaigns(ctx context.Context, campaigns []types.Campaign, assessmentID string) (*Result, error) {
	groupName, err := client.AddGroup(ctx, assessmentID)
	if errors.Is(err, ErrCancelled) {
		client.Logger.Warn("Test campaigns cancelled")
		return &Result{}, nil
	}
	if err != nil {
		return nil, err
	}

	result := &Result{GroupName: groupName}
	for _, campaign := range campaigns {
		created, err := client.GophishClient.PostCampaign(ctx, BuildTestCampaign(campaign, groupName))
		if err != nil {
			return result, err
		}
		client.Logger.Debugf("Test Campaign added: %s", created.Name)
		result.Campaigns = append(result.Campaigns, created.Name)
	}

	client.Logger.Info("All Test campaigns added.")
	return result, nil
}

func TestGroupName(assessmentID string) string {
	return fmt.Sprintf("%s%s-G1", testPrefix, assessmentID)
}

// BuildTestCampaign copies the original's page, template and sending profile
// by name and points the copy at the test group.
func BuildTestCampaign(original types.Campaign, groupName string) types.Campaign {
	return types.Campaign{
		Name:     testPrefix + original.Name,
		Groups:   []types.GroupRef{{Name: groupName}},
		Page:     &types.Page{Name: original.PageName()},
		Template: &types.Template{Name: original.TemplateName()},
		SMTP:     &types.SMTP{Name: original.SMTPName()},
		URL:      original.URL,
	}
}
