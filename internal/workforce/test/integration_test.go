//go:build integration
// +build integration

package test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gartstein/workforce/internal/workforce/controller"
	"github.com/gartstein/workforce/internal/workforce/db"
	e "github.com/gartstein/workforce/internal/workforce/errors"
	"github.com/gartstein/workforce/internal/workforce/events"
	"github.com/gartstein/workforce/internal/workforce/validation"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

type IntegrationTestSuite struct {
	suite.Suite
	dbRepo       *db.Repository
	logger       *zap.Logger
	testTimeout  time.Duration
	cleanupFuncs []func()
}

func TestIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests")
	}
	suite.Run(t, new(IntegrationTestSuite))
}

func (s *IntegrationTestSuite) SetupSuite() {
	s.logger = zap.NewNop()
	s.testTimeout = 20 * time.Second
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("workforce"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	s.Require().NoError(err, "Failed to start PostgreSQL container")
	s.cleanupFuncs = append(s.cleanupFuncs, func() {
		if err := container.Terminate(ctx); err != nil {
			s.T().Logf("Failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	s.Require().NoError(err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	s.Require().NoError(err)

	s.dbRepo, err = initializeDBWithRetry(&db.Config{
		Driver:   db.DriverPostgres,
		Host:     host,
		Port:     port.Int(),
		User:     "test",
		Password: "test",
		DBName:   "workforce",
		SSLMode:  "disable",
	})
	s.Require().NoError(err, "Database initialization failed")
	s.cleanupFuncs = append(s.cleanupFuncs, func() { _ = s.dbRepo.Close() })
}

func initializeDBWithRetry(cfg *db.Config) (*db.Repository, error) {
	var repo *db.Repository
	err := backoff.Retry(func() error {
		var err error
		repo, err = db.NewRepository(cfg)
		return err
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 8))
	return repo, err
}

func (s *IntegrationTestSuite) TearDownSuite() {
	for i := len(s.cleanupFuncs) - 1; i >= 0; i-- {
		s.cleanupFuncs[i]()
	}
}

// uniqueName keeps tests independent without truncating tables.
func uniqueName(prefix string) string {
	return prefix + " " + uuid.NewString()[:8]
}

func (s *IntegrationTestSuite) TestCompanyLifecycle() {
	ctx, cancel := context.WithTimeout(context.Background(), s.testTimeout)
	defer cancel()

	svc := controller.NewCompanyService(s.dbRepo, s.logger)
	name := uniqueName("Acme")

	created, err := svc.CreateCompany(ctx, validation.Input{"name": name, "website": "acme.test"})
	s.Require().NoError(err)

	_, err = svc.CreateCompany(ctx, validation.Input{"name": name})
	var verrs validation.Errors
	s.Require().ErrorAs(err, &verrs)
	s.Equal([]string{"The name has already been taken."}, verrs["name"])

	renamed := uniqueName("Acme Ltd")
	_, err = svc.UpdateCompany(ctx, created.ID, validation.Input{"name": renamed, "email": "hr@acme.test"})
	s.Require().NoError(err)

	got, err := svc.GetCompany(ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(renamed, got.Name)
	s.Nil(got.Website)

	s.Require().NoError(svc.DeleteCompany(ctx, created.ID))
	_, err = s.dbRepo.GetCompany(ctx, created.ID)
	assert.ErrorIs(s.T(), err, e.ErrNotFound)
}

// TestConcurrentCreateSameName checks that the unique index closes the gap
// between the uniqueness check and the insert.
func (s *IntegrationTestSuite) TestConcurrentCreateSameName() {
	ctx, cancel := context.WithTimeout(context.Background(), s.testTimeout)
	defer cancel()

	svc := controller.NewCompanyService(s.dbRepo, s.logger)
	name := uniqueName("Race")

	const writers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateCompany(ctx, validation.Input{"name": name})
			mu.Lock()
			defer mu.Unlock()
			var verrs validation.Errors
			switch {
			case err == nil:
				succeeded++
			case assert.ErrorAs(s.T(), err, &verrs):
				rejected++
			}
		}()
	}
	wg.Wait()

	s.Equal(1, succeeded)
	s.Equal(writers-1, rejected)
}

func (s *IntegrationTestSuite) TestEmployeesAndStatistics() {
	ctx, cancel := context.WithTimeout(context.Background(), s.testTimeout)
	defer cancel()

	companies := controller.NewCompanyService(s.dbRepo, s.logger)
	dispatched := make(chan events.Notification, 4)
	employees := controller.NewEmployeeService(s.dbRepo, dispatcherFunc(func(n events.Notification) {
		dispatched <- n
	}), s.logger)
	stats := controller.NewStatisticsService(s.dbRepo, s.logger)

	company, err := companies.CreateCompany(ctx, validation.Input{"name": uniqueName("Stats"), "email": "hr@stats.test"})
	s.Require().NoError(err)
	companyID := json.Number(fmt.Sprint(company.ID))

	for _, in := range []validation.Input{
		{"first_name": "Ann", "last_name": "Lee", "company_id": companyID, "age": json.Number("20"), "salary": json.Number("650")},
		{"first_name": "Bob", "last_name": "Ray", "company_id": companyID, "age": json.Number("30"), "salary": json.Number("1050")},
		{"first_name": "Cid", "last_name": "Moe", "company_id": companyID, "age": json.Number("25"), "salary": json.Number("813")},
	} {
		_, err := employees.CreateEmployee(ctx, in)
		s.Require().NoError(err)
	}

	for i := 0; i < 3; i++ {
		select {
		case n := <-dispatched:
			s.Equal("hr@stats.test", n.To)
		case <-time.After(5 * time.Second):
			s.T().Fatal("notification not dispatched")
		}
	}

	_, err = employees.CreateEmployee(ctx, validation.Input{"first_name": "X", "last_name": "Y", "company_id": json.Number("999999999")})
	var verrs validation.Errors
	s.Require().ErrorAs(err, &verrs)
	s.Contains(verrs, "company_id")

	result, err := stats.CompanyStatistics(ctx, company.ID)
	s.Require().NoError(err)
	s.Equal("837.67", result.AverageSalary.StringFixed(2))
	s.Equal("25.00", result.AverageAge.StringFixed(2))
	s.Equal(30, *result.MaxAge)
	s.Equal(20, *result.MinAge)

	s.Require().NoError(companies.DeleteCompany(ctx, company.ID))
	listed, err := s.dbRepo.ListEmployeesByCompany(ctx, company.ID)
	s.Require().NoError(err)
	s.Len(listed, 3, "employees survive their company")
}

// TestEmployeeColumnBounds checks that values the employees columns cannot
// hold are rejected as field errors and that accepted ones read back as
// written.
func (s *IntegrationTestSuite) TestEmployeeColumnBounds() {
	ctx, cancel := context.WithTimeout(context.Background(), s.testTimeout)
	defer cancel()

	employees := controller.NewEmployeeService(s.dbRepo, dispatcherFunc(func(events.Notification) {}), s.logger)

	for _, in := range []validation.Input{
		{"first_name": "Big", "last_name": "Age", "age": json.Number("99999999999")},
		{"first_name": "Big", "last_name": "Pay", "salary": json.Number("1e12")},
		{"first_name": "Odd", "last_name": "Cents", "salary": json.Number("1.005")},
	} {
		_, err := employees.CreateEmployee(ctx, in)
		var verrs validation.Errors
		s.Require().ErrorAs(err, &verrs, "input %v", in)
	}

	created, err := employees.CreateEmployee(ctx, validation.Input{
		"first_name": "Max",
		"last_name":  "Out",
		"age":        json.Number("2147483647"),
		"salary":     json.Number("9999999999.99"),
	})
	s.Require().NoError(err)

	got, err := employees.GetEmployee(ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(2147483647, *got.Age)
	s.Equal("9999999999.99", got.Salary.StringFixed(2))
	s.True(got.Salary.Equal(*created.Salary))
}

// TestNotificationRoundTrip needs a broker in KAFKA_BROKERS.
func (s *IntegrationTestSuite) TestNotificationRoundTrip() {
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		s.T().Skip("KAFKA_BROKERS not set")
	}
	brokerList := strings.Split(brokers, ",")
	topic := "workforce-notifications-" + uuid.NewString()[:8]

	err := backoff.Retry(func() error {
		return events.EnsureTopic(brokerList, topic, s.logger)
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5))
	s.Require().NoError(err)

	producer := events.NewProducer(brokerList, topic, s.logger)
	want := events.Notification{To: "hr@acme.test", Title: "Mail from Company-employees", Body: "New employee, named Ann Lee added to your company."}
	producer.Dispatch(want)
	producer.Close()

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokerList,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	msg, err := reader.ReadMessage(ctx)
	s.Require().NoError(err)

	var got events.Notification
	require.NoError(s.T(), json.Unmarshal(msg.Value, &got))
	s.Equal(want, got)
	s.Equal(want.To, string(msg.Key))
}

type dispatcherFunc func(events.Notification)

func (f dispatcherFunc) Dispatch(n events.Notification) { f(n) }
