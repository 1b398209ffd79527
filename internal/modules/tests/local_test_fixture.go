package tests

import (
	"os"

	"github.com/google/uuid"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const skipInfrastructureEnv = "SKIP_INFRASTRUCTURE"

// LocalTestFixture runs the docker-compose stack the integration tests
// depend on. Setting SKIP_INFRASTRUCTURE=true assumes the stack is
// already running.
type LocalTestFixture struct {
	compose *tc.LocalDockerCompose
}

func NewLocalTestFixture(dockerComposePath string, strategies map[string]wait.Strategy) LocalTestFixture {
	compose := tc.NewLocalDockerCompose(
		[]string{dockerComposePath},
		uuid.NewString(),
	)

	for serviceName, strategy := range strategies {
		compose = compose.WaitForService(serviceName, strategy).(*tc.LocalDockerCompose)
	}

	return LocalTestFixture{compose: compose}
}

func (f *LocalTestFixture) Start() error {
	if skipInfrastructure() {
		return nil
	}

	return f.compose.WithCommand([]string{"up", "-d"}).Invoke().Error
}

func (f *LocalTestFixture) Stop() error {
	if skipInfrastructure() {
		return nil
	}

	return f.compose.Down().Error
}

func skipInfrastructure() bool {
	return os.Getenv(skipInfrastructureEnv) == "true"
}
