//go:build integration

package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

func registerSchedulingSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	ctx.Step(`^the current time is "([^"]*)"$`, tc.theCurrentTimeIs)
	ctx.Step(`^(\d+) days? pass(?:es)?$`, tc.daysPass)
	ctx.Step(`^(\d+) months? pass(?:es)?$`, tc.monthsPass)
	ctx.Step(`^(\d+) minutes? pass(?:es)?$`, tc.minutesPass)
	ctx.Step(`^the recurring sweep runs$`, tc.theRecurringSweepRuns)
	ctx.Step(`^the sweep should report (\d+) found and (\d+) processed$`, tc.theSweepShouldReport)
	ctx.Step(`^a timer should be armed for "([^"]*)"$`, tc.aTimerShouldBeArmedFor)
	ctx.Step(`^no timer should be armed for "([^"]*)"$`, tc.noTimerShouldBeArmedFor)
	ctx.Step(`^the service restarts$`, tc.theServiceRestarts)
	ctx.Step(`^an account "([^"]*)" exists as "([^"]*)"$`, tc.anAccountExistsAs)
	ctx.Step(`^an expense category "([^"]*)" exists as "([^"]*)"$`, tc.anExpenseCategoryExistsAs)
	ctx.Step(`^a budget for account "([^"]*)" in "([^"]*)" exists as "([^"]*)"$`, tc.aBudgetExistsAs)
	ctx.Step(`^category "([^"]*)" is budgeted at "([^"]*)" in budget "([^"]*)"$`, tc.categoryIsBudgetedIn)
}

func registerDatabaseSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	ctx.Step(`^the db should contain (\d+) objects? in the "([^"]*)" table$`, tc.theDBShouldContainObjects)
	ctx.Step(`^eventually the db should contain (\d+) objects? in the "([^"]*)" table$`, tc.eventuallyTheDBShouldContainObjects)
	ctx.Step(`^the db should contain an object in the "([^"]*)" table with the values:$`, tc.theDBShouldContainObjectWithValues)
}

func (tc *TestContext) theCurrentTimeIs(value string) error {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return fmt.Errorf("invalid time %q: %w", value, err)
	}
	tc.clock.SetCurrentTime(t)
	return nil
}

func (tc *TestContext) daysPass(days int) error {
	tc.clock.AddDate(0, 0, days)
	return nil
}

func (tc *TestContext) monthsPass(months int) error {
	tc.clock.AddDate(0, months, 0)
	return nil
}

func (tc *TestContext) minutesPass(minutes int) error {
	tc.clock.Advance(time.Duration(minutes) * time.Minute)
	return nil
}

func (tc *TestContext) theRecurringSweepRuns() error {
	output, err := tc.injector.Sweeper.RunNow(context.Background())
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}
	tc.lastSweep = output
	return nil
}

func (tc *TestContext) theSweepShouldReport(found, processed int) error {
	if tc.lastSweep == nil {
		return fmt.Errorf("no sweep has run")
	}
	if tc.lastSweep.Found != found || tc.lastSweep.Processed != processed {
		return fmt.Errorf("expected sweep to find %d and process %d, got found=%d processed=%d failed=%d",
			found, processed, tc.lastSweep.Found, tc.lastSweep.Processed, tc.lastSweep.Failed)
	}
	return nil
}

func (tc *TestContext) savedID(name string) (uuid.UUID, error) {
	value, ok := tc.saved[name]
	if !ok {
		return uuid.Nil, fmt.Errorf("nothing saved as %q", name)
	}
	return uuid.Parse(value)
}

func (tc *TestContext) aTimerShouldBeArmedFor(name string) error {
	id, err := tc.savedID(name)
	if err != nil {
		return err
	}
	if !tc.injector.Timers.IsArmed(id) {
		return fmt.Errorf("expected a timer to be armed for %s", id)
	}
	return nil
}

func (tc *TestContext) noTimerShouldBeArmedFor(name string) error {
	id, err := tc.savedID(name)
	if err != nil {
		return err
	}
	if tc.injector.Timers.IsArmed(id) {
		return fmt.Errorf("expected no timer to be armed for %s", id)
	}
	return nil
}

// theServiceRestarts drops every in-memory timer and rebuilds the application
// over the same database, re-arming timers from persisted cursors.
func (tc *TestContext) theServiceRestarts() error {
	tc.shutdown()
	tc.start()

	if _, err := tc.injector.Rearm.Execute(context.Background()); err != nil {
		return fmt.Errorf("failed to re-arm timers: %w", err)
	}
	return nil
}

func (tc *TestContext) anAccountExistsAs(name, saveAs string) error {
	body := fmt.Sprintf(`{"name": %q, "balance": 0}`, name)
	if err := tc.executeRequest("POST", "/api/v1/accounts", []byte(body)); err != nil {
		return err
	}
	if err := tc.theResponseStatusShouldBe(201); err != nil {
		return err
	}
	return tc.iSaveTheResponseFieldAs("id", saveAs)
}

func (tc *TestContext) anExpenseCategoryExistsAs(name, saveAs string) error {
	body := fmt.Sprintf(`{"name": %q, "type": "expense"}`, name)
	if err := tc.executeRequest("POST", "/api/v1/categories", []byte(body)); err != nil {
		return err
	}
	if err := tc.theResponseStatusShouldBe(201); err != nil {
		return err
	}
	return tc.iSaveTheResponseFieldAs("id", saveAs)
}

func (tc *TestContext) aBudgetExistsAs(accountID, month, saveAs string) error {
	body := fmt.Sprintf(`{"account_id": %q, "month": %q, "total_budgeted": 0, "total_spent": 0}`,
		tc.replacePlaceholders(accountID), month)
	if err := tc.executeRequest("POST", "/api/v1/budgets", []byte(body)); err != nil {
		return err
	}
	if err := tc.theResponseStatusShouldBe(201); err != nil {
		return err
	}
	return tc.iSaveTheResponseFieldAs("id", saveAs)
}

func (tc *TestContext) categoryIsBudgetedIn(category, amount, budget string) error {
	body := fmt.Sprintf(`{"category_id": %q, "budgeted": %s, "spent": 0}`, tc.saved[category], amount)
	if err := tc.executeRequest("POST", "/api/v1/budgets/"+tc.saved[budget]+"/categories", []byte(body)); err != nil {
		return err
	}
	if err := tc.theResponseStatusShouldBe(201); err != nil {
		return err
	}
	return tc.iSaveTheResponseFieldAs("id", budget+"_"+category)
}

func (tc *TestContext) theDBShouldContainObjects(expected int, table string) error {
	count, err := tc.db.Count(table)
	if err != nil {
		return err
	}
	if count != int64(expected) {
		return fmt.Errorf("expected %d objects in table %q, got %d", expected, table, count)
	}
	return nil
}

func (tc *TestContext) eventuallyTheDBShouldContainObjects(expected int, table string) error {
	deadline := time.Now().Add(3 * time.Second)
	for {
		err := tc.theDBShouldContainObjects(expected, table)
		if err == nil || time.Now().After(deadline) {
			return err
		}
		time.Sleep(50 * time.Millisecond)
	}
}

// theDBShouldContainObjectWithValues looks for a row whose columns match every
// | column | value | pair of the table.
func (tc *TestContext) theDBShouldContainObjectWithValues(table string, values *godog.Table) error {
	model, ok := tc.db.GetModel(table)
	if !ok {
		return fmt.Errorf("unknown table %q", table)
	}

	stmt := &gorm.Statement{DB: tc.db.DbConn}
	if err := stmt.Parse(model); err != nil {
		return fmt.Errorf("failed to parse model for %q: %w", table, err)
	}

	expected := map[string]string{}
	for _, row := range values.Rows {
		if len(row.Cells) != 2 {
			return fmt.Errorf("expected | column | value | rows")
		}
		column := row.Cells[0].Value
		if stmt.Schema.LookUpField(column) == nil {
			return fmt.Errorf("table %q has no column %q", table, column)
		}
		expected[column] = tc.replacePlaceholders(row.Cells[1].Value)
	}

	rows := reflect.New(reflect.SliceOf(reflect.TypeOf(model).Elem()))
	if err := tc.db.DbConn.Find(rows.Interface()).Error; err != nil {
		return fmt.Errorf("failed to query table %q: %w", table, err)
	}

	var seen []string
	for i := 0; i < rows.Elem().Len(); i++ {
		row := rows.Elem().Index(i)
		actual := map[string]string{}
		matches := true
		for column, want := range expected {
			got := formatColumn(stmt.Schema.LookUpField(column), row)
			actual[column] = got
			if got != want {
				matches = false
			}
		}
		if matches {
			return nil
		}
		raw, _ := json.Marshal(actual)
		seen = append(seen, string(raw))
	}

	return fmt.Errorf("no row in %q matched %v; rows: %s", table, expected, strings.Join(seen, ", "))
}

func formatColumn(field *schema.Field, row reflect.Value) string {
	value := row.FieldByIndex(field.StructField.Index)
	if value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return "null"
		}
		value = value.Elem()
	}

	switch v := value.Interface().(type) {
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	case decimal.Decimal:
		return v.String()
	case uuid.UUID:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case gorm.DeletedAt:
		if !v.Valid {
			return "null"
		}
		return v.Time.UTC().Format(time.RFC3339)
	}
	return fmt.Sprint(value.Interface())
}
