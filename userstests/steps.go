package userstests

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/belyf/users-contract-tests/client"
	"github.com/belyf/users-contract-tests/logging"
	"github.com/belyf/users-contract-tests/servicedef"

	"github.com/cucumber/godog"
)

type scenarioState struct {
	backend     Backend
	debugLogger logging.Logger
	session     *Session
	response    *client.Response
	current     servicedef.UserRecord
}

// ScenarioInitializer returns the godog glue for the users feature files. Each scenario gets
// its own session from backend.
func ScenarioInitializer(backend Backend, debugLogger logging.Logger) func(*godog.ScenarioContext) {
	return func(sc *godog.ScenarioContext) {
		InitializeScenario(sc, backend, debugLogger)
	}
}

func InitializeScenario(sc *godog.ScenarioContext, backend Backend, debugLogger logging.Logger) {
	if debugLogger == nil {
		debugLogger = logging.NullLogger()
	}
	state := &scenarioState{backend: backend, debugLogger: debugLogger}

	sc.Before(func(ctx context.Context, scenario *godog.Scenario) (context.Context, error) {
		session, err := backend.Setup(ctx, logging.WithPrefix(debugLogger, "["+scenario.Name+"] "))
		if err != nil {
			return ctx, err
		}
		state.session = session
		state.current = session.Seed
		return ctx, nil
	})
	sc.After(func(ctx context.Context, scenario *godog.Scenario, err error) (context.Context, error) {
		if state.session != nil {
			state.session.Close()
			state.session = nil
		}
		state.response = nil
		return ctx, nil
	})

	sc.Step(`^the user service is running$`, state.theUserServiceIsRunning)
	sc.Step(`^I request all users$`, state.iRequestAllUsers)
	sc.Step(`^I create a user with the following details:$`, state.iCreateAUser)
	sc.Step(`^I create a user with the following details with an invalid endpoint:$`, state.iCreateAUserAtAnInvalidEndpoint)
	sc.Step(`^I update the user with the following details:$`, state.iUpdateTheUser)
	sc.Step(`^I delete the user$`, state.iDeleteTheUser)
	sc.Step(`^(?:when )?I try to retrieve the deleted user$`, state.iRetrieveTheCurrentUser)
	sc.Step(`^the response status should be (\d+)$`, state.theResponseStatusShouldBe)
	sc.Step(`^the response should not be empty$`, state.theResponseShouldNotBeEmpty)
	sc.Step(`^the response should be empty$`, state.theResponseShouldBeEmpty)
	sc.Step(`^the response should match the "([^"]*)" schema$`, state.theResponseShouldMatchSchema)
	sc.Step(`^the response should contain "(.*)"$`, state.theResponseShouldContain)
	sc.Step(`^the user's (first name|last name|email|age) should be "([^"]*)"$`, state.theUserFieldShouldBe)
}

func (s *scenarioState) theUserServiceIsRunning(ctx context.Context) error {
	resp, err := s.session.Client.Ping(ctx)
	if err != nil {
		return err
	}
	if resp.StatusCode != 200 {
		return fmt.Errorf("service is not running: %w", resp.StatusError())
	}
	return nil
}

func (s *scenarioState) iRequestAllUsers(ctx context.Context) error {
	return s.record(s.session.Client.List(ctx, ""))
}

func (s *scenarioState) iCreateAUser(ctx context.Context, table *godog.Table) error {
	params, err := paramsFromTable(table)
	if err != nil {
		return err
	}
	return s.recordCurrent(s.session.Client.Create(ctx, params))
}

func (s *scenarioState) iCreateAUserAtAnInvalidEndpoint(ctx context.Context, table *godog.Table) error {
	params, err := paramsFromTable(table)
	if err != nil {
		return err
	}
	return s.recordCurrent(s.session.Client.CreateAt(ctx, servicedef.DefaultResourcePath+"/invalid", params))
}

func (s *scenarioState) iUpdateTheUser(ctx context.Context, table *godog.Table) error {
	params, err := paramsFromTable(table)
	if err != nil {
		return err
	}
	return s.recordCurrent(s.session.Client.Update(ctx, s.current.ID, params))
}

func (s *scenarioState) iDeleteTheUser(ctx context.Context) error {
	return s.record(s.session.Client.Delete(ctx, s.current.ID))
}

func (s *scenarioState) iRetrieveTheCurrentUser(ctx context.Context) error {
	return s.record(s.session.Client.Get(ctx, s.current.ID))
}

func (s *scenarioState) theResponseStatusShouldBe(expected int) error {
	if s.response == nil {
		return errors.New("no response received")
	}
	if s.response.StatusCode != expected {
		return fmt.Errorf("expected status %d, got %d: %s", expected, s.response.StatusCode, string(s.response.Body))
	}
	return nil
}

func (s *scenarioState) theResponseShouldNotBeEmpty() error {
	n, err := s.responseSize()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.New("expected a non-empty response")
	}
	return nil
}

func (s *scenarioState) theResponseShouldBeEmpty() error {
	n, err := s.responseSize()
	if err != nil {
		return err
	}
	if n != 0 {
		return fmt.Errorf("expected an empty response, got %d records", n)
	}
	return nil
}

func (s *scenarioState) theResponseShouldMatchSchema(schema string) error {
	if s.response == nil {
		return errors.New("no response received")
	}
	return checkSchema(schema, s.response.Body)
}

func (s *scenarioState) theResponseShouldContain(substring string) error {
	if s.response == nil {
		return errors.New("no response received")
	}
	env, err := s.response.Envelope()
	if err != nil {
		return err
	}
	if !strings.Contains(env.Message, substring) {
		return fmt.Errorf("expected message containing %q, got %q", substring, env.Message)
	}
	return nil
}

func (s *scenarioState) theUserFieldShouldBe(field, expected string) error {
	var actual string
	switch field {
	case "first name":
		actual = s.current.FirstName
	case "last name":
		actual = s.current.LastName.StringValue()
	case "email":
		actual = s.current.Email
	case "age":
		actual = strconv.Itoa(s.current.Age)
	}
	if actual != expected {
		return fmt.Errorf("expected user's %s to be %q, got %q", field, expected, actual)
	}
	return nil
}

func (s *scenarioState) record(resp *client.Response, err error) error {
	if err != nil {
		return err
	}
	s.response = resp
	return nil
}

// recordCurrent also remembers the first returned user, if the request succeeded, as the
// subject of later steps.
func (s *scenarioState) recordCurrent(resp *client.Response, err error) error {
	if err := s.record(resp, err); err != nil {
		return err
	}
	if resp.IsSuccess() {
		user, err := resp.FirstUser()
		if err != nil {
			return err
		}
		s.current = user
	}
	return nil
}

func (s *scenarioState) responseSize() (int, error) {
	if s.response == nil {
		return 0, errors.New("no response received")
	}
	var items []json.RawMessage
	if err := json.Unmarshal(s.response.Body, &items); err != nil {
		return 0, fmt.Errorf("response is not an array: %s", string(s.response.Body))
	}
	return len(items), nil
}

// paramsFromTable reads a two-column table of field names and values.
func paramsFromTable(table *godog.Table) (servicedef.UserParams, error) {
	rows := make([][]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		cells := make([]string, 0, len(row.Cells))
		for _, cell := range row.Cells {
			cells = append(cells, cell.Value)
		}
		rows = append(rows, cells)
	}
	return paramsFromRows(rows)
}

func paramsFromRows(rows [][]string) (servicedef.UserParams, error) {
	var p servicedef.UserParams
	for _, row := range rows {
		if len(row) != 2 {
			return p, fmt.Errorf("expected 2 columns in user table, got %d", len(row))
		}
		value := row[1]
		switch key := row[0]; key {
		case "id":
			p.ID = value
		case "first_name":
			p.FirstName = value
		case "last_name":
			p.LastName = value
		case "email":
			p.Email = value
		case "age":
			p.Age = value
		default:
			return p, fmt.Errorf("unknown user field %q", key)
		}
	}
	return p, nil
}
