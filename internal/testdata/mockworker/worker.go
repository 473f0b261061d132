package mockworker

import (
	"event-analytics-service/internal/model"

	"github.com/stretchr/testify/mock"
)

type Worker struct {
	mock.Mock
}

func (m *Worker) Enqueue(activity model.Notification) {
	m.Called(activity)
}

func (m *Worker) Shutdown() {
	m.Called()
}
