package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"event-analytics-service/internal/model"
	"event-analytics-service/internal/testdata/mockrepository"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type BatchActivityWorkerTestSuite struct {
	suite.Suite
	mockRepo *mockrepository.ActivityRepository
	worker   *batchActivityWorker
}

func TestBatchActivityWorkerSuite(t *testing.T) {
	suite.Run(t, new(BatchActivityWorkerTestSuite))
}

func (s *BatchActivityWorkerTestSuite) SetupTest() {
	s.mockRepo = new(mockrepository.ActivityRepository)
}

func (s *BatchActivityWorkerTestSuite) TearDownTest() {
	s.mockRepo.AssertExpectations(s.T())
}

func (s *BatchActivityWorkerTestSuite) TestBatchSizeTrigger() {
	batchSize := 5

	var wg sync.WaitGroup
	wg.Add(1)

	s.mockRepo.On("CreateBatch", mock.Anything, mock.MatchedBy(func(activities []model.Notification) bool {
		return len(activities) == batchSize
	})).Run(func(args mock.Arguments) {
		wg.Done()
	}).Return(nil)

	s.worker = NewBatchActivityWorker(s.mockRepo, 10, batchSize, time.Hour)
	defer s.worker.Shutdown()

	for i := 0; i < batchSize; i++ {
		s.worker.Enqueue(model.Notification{EventID: "event-a", Type: model.NotificationView})
	}

	s.waitForAsyncOp(&wg, "batch size trigger")
}

func (s *BatchActivityWorkerTestSuite) TestTimeIntervalTrigger() {
	var wg sync.WaitGroup
	wg.Add(1)

	sent := 3
	s.mockRepo.On("CreateBatch", mock.Anything, mock.MatchedBy(func(activities []model.Notification) bool {
		return len(activities) == sent
	})).Run(func(args mock.Arguments) {
		wg.Done()
	}).Return(nil)

	s.worker = NewBatchActivityWorker(s.mockRepo, 10, 10, 50*time.Millisecond)
	defer s.worker.Shutdown()

	for i := 0; i < sent; i++ {
		s.worker.Enqueue(model.Notification{EventID: "event-a", Type: model.NotificationRating})
	}

	s.waitForAsyncOp(&wg, "time interval trigger")
}

func (s *BatchActivityWorkerTestSuite) TestShutdownFlush() {
	sent := 4
	s.mockRepo.On("CreateBatch", mock.Anything, mock.MatchedBy(func(activities []model.Notification) bool {
		return len(activities) == sent
	})).Return(nil)

	s.worker = NewBatchActivityWorker(s.mockRepo, 10, 10, time.Hour)
	for i := 0; i < sent; i++ {
		s.worker.Enqueue(model.Notification{EventID: "event-a", Type: model.NotificationView})
	}

	// Shutdown blocks until the queue is drained.
	s.worker.Shutdown()
}

func (s *BatchActivityWorkerTestSuite) TestGracefulErrorHandling() {
	var wg sync.WaitGroup
	wg.Add(1)

	s.mockRepo.On("CreateBatch", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { wg.Done() }).
		Return(context.DeadlineExceeded)

	s.worker = NewBatchActivityWorker(s.mockRepo, 10, 1, time.Hour)
	defer s.worker.Shutdown()

	s.worker.Enqueue(model.Notification{EventID: "event-a", Type: model.NotificationView})

	s.waitForAsyncOp(&wg, "error handling")
}

func (s *BatchActivityWorkerTestSuite) waitForAsyncOp(wg *sync.WaitGroup, name string) {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		s.T().Fatalf("%s: timed out waiting for worker", name)
	}
}
