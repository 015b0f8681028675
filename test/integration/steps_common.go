package integration

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cucumber/godog"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	staffToken   string
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{tc: tc}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	// Background steps
	sc.Step(`^the salon server is running$`, s.theSalonServerIsRunning)
	sc.Step(`^I have a valid staff token$`, s.iHaveAValidStaffToken)
	sc.Step(`^I have no staff token$`, s.iHaveNoStaffToken)
	sc.Step(`^I have a staff token signed with the wrong secret$`, s.iHaveAForgedStaffToken)

	// Request steps
	sc.Step(`^I GET "([^"]*)"$`, s.iGET)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response should contain "([^"]*)"$`, s.theResponseShouldContain)
	sc.Step(`^the response should be a JSON array with at least (\d+) items$`, s.theResponseShouldBeAJSONArray)

	// Data steps
	sc.Step(`^a user (\d+) named "([^"]*)" exists$`, s.aUserExists)
	sc.Step(`^user (\d+) has an appointment with "([^"]*)" for "([^"]*)" at "([^"]*)"$`, s.userHasAnAppointment)
}

func (s *StepsContext) theSalonServerIsRunning() error {
	// Server is already running via TestContext
	return nil
}

func (s *StepsContext) iHaveAValidStaffToken() error {
	token, err := s.tc.Auth.IssueToken("integration", time.Hour)
	if err != nil {
		return fmt.Errorf("failed to issue staff token: %w", err)
	}
	s.staffToken = token
	return nil
}

func (s *StepsContext) iHaveNoStaffToken() error {
	s.staffToken = ""
	return nil
}

func (s *StepsContext) iHaveAForgedStaffToken() error {
	forged, err := s.tc.Auth.IssueToken("integration", time.Hour)
	if err != nil {
		return err
	}
	// Corrupt the signature so validation fails
	parts := strings.Split(forged, ".")
	parts[len(parts)-1] = "forgedforgedforged"
	s.staffToken = strings.Join(parts, ".")
	return nil
}

func (s *StepsContext) iGET(path string) error {
	req, err := http.NewRequest(http.MethodGet, s.tc.ServerURL+path, nil)
	if err != nil {
		return err
	}
	if s.staffToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.staffToken)
	}

	resp, err := s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	s.response = resp
	s.responseBody = body
	return nil
}

func (s *StepsContext) theResponseStatusShouldBe(status int) error {
	if s.response == nil {
		return fmt.Errorf("no response recorded")
	}
	if s.response.StatusCode != status {
		return fmt.Errorf("expected status %d, got %d (body: %s)", status, s.response.StatusCode, s.responseBody)
	}
	return nil
}

func (s *StepsContext) theResponseShouldContain(text string) error {
	if !strings.Contains(string(s.responseBody), text) {
		return fmt.Errorf("response does not contain %q: %s", text, s.responseBody)
	}
	return nil
}

func (s *StepsContext) theResponseShouldBeAJSONArray(minItems int) error {
	var items []json.RawMessage
	if err := json.Unmarshal(s.responseBody, &items); err != nil {
		return fmt.Errorf("response is not a JSON array: %w (body: %s)", err, s.responseBody)
	}
	if len(items) < minItems {
		return fmt.Errorf("expected at least %d items, got %d", minItems, len(items))
	}
	return nil
}

func (s *StepsContext) aUserExists(userID int, name string) error {
	return s.tc.DB.Exec(`
		INSERT INTO users (user_id, username, first_name) VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET first_name = EXCLUDED.first_name
	`, userID, strings.ToLower(name), name).Error
}

func (s *StepsContext) userHasAnAppointment(userID int, masterName, serviceName, at string) error {
	slot, err := time.Parse("2006-01-02 15:04", at)
	if err != nil {
		return fmt.Errorf("bad slot %q: %w", at, err)
	}

	return s.tc.DB.Exec(`
		INSERT INTO appointments (user_id, master_id, service_id, appointment_at, status)
		SELECT ?, m.id, s.id, ?, 'booked'
		FROM masters m, services s
		WHERE m.name = ? AND s.name = ?
	`, userID, slot, masterName, serviceName).Error
}
