package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (s *ConfigTestSuite) SetupTest() {
	s.T().Setenv("DATABASE_URI", "")
	s.T().Setenv("RUN_ADDRESS", "")
	s.T().Setenv("MIGRATIONS_DIR", "")
	s.T().Setenv("PROVIDER_API_URL", "")
	s.T().Setenv("JWT_SECRET", "secret")
	s.T().Setenv("BUSINESS_TIMEZONE", "")
	s.T().Setenv("STALE_NETWORKS", "")
	s.T().Setenv("APP_ENV", "")
	s.T().Setenv("SCHEDULE_RECONCILE_INTERVAL", "")
}

func (s *ConfigTestSuite) TestDefaults() {
	conf, err := LoadConfig([]string{"-d", "postgres://localhost/db", "-r", "http://provider.local"})
	s.Require().NoError(err)

	s.Equal("localhost:8080", conf.RunAddress)
	s.Equal("postgres://localhost/db", conf.DatabaseDSN)
	s.Equal("http://provider.local", conf.ProviderAPIURL)
	s.Equal(10*time.Minute, conf.Schedule.ReconcileInterval)
	s.Equal(10*time.Minute, conf.Schedule.StaleCompleteInterval)
	s.Equal(30*time.Minute, conf.StaleAfter)
	s.Equal([]string{"bigtime", "telecel"}, conf.StaleNetworks)
	s.Equal("Africa/Accra", conf.BusinessTimezone)
	s.False(conf.IsProduction())
}

func (s *ConfigTestSuite) TestEnvOverridesFlags() {
	s.T().Setenv("DATABASE_URI", "postgres://env/db")
	s.T().Setenv("PROVIDER_API_URL", "https://api.provider.example")
	s.T().Setenv("SCHEDULE_RECONCILE_INTERVAL", "1m")
	s.T().Setenv("STALE_NETWORKS", " MTN , ,Telecel")
	s.T().Setenv("APP_ENV", EnvProduction)

	conf, err := LoadConfig([]string{"-d", "postgres://flag/db"})
	s.Require().NoError(err)

	s.Equal("postgres://env/db", conf.DatabaseDSN)
	s.Equal(time.Minute, conf.Schedule.ReconcileInterval)
	s.Equal([]string{"mtn", "telecel"}, conf.StaleNetworks)
	s.True(conf.IsProduction())
}

func (s *ConfigTestSuite) TestValidation() {
	cases := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{
			name: "no database",
			args: []string{"-r", "http://provider.local"},
		}, {
			name: "no provider",
			args: []string{"-d", "postgres://localhost/db"},
		}, {
			name: "bad timezone",
			env:  map[string]string{"BUSINESS_TIMEZONE": "Mars/Olympus"},
			args: []string{"-d", "postgres://localhost/db", "-r", "http://provider.local"},
		}, {
			name: "zero interval",
			env:  map[string]string{"SCHEDULE_STALE_COMPLETE_INTERVAL": "0s"},
			args: []string{"-d", "postgres://localhost/db", "-r", "http://provider.local"},
		},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			for k, v := range t.env {
				s.T().Setenv(k, v)
			}
			_, err := LoadConfig(t.args)
			s.Error(err)
		})
	}
}
