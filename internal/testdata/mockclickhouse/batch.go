package mockclickhouse

import (
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/stretchr/testify/mock"
)

// Batch is a testify mock of driver.Batch. Rows passed to Append are
// also collected in Rows so tests can inspect column order.
type Batch struct {
	mock.Mock
	Rows [][]any
}

var _ driver.Batch = &Batch{}

func (m *Batch) Append(args ...any) error {
	m.Rows = append(m.Rows, args)
	return m.Called(args...).Error(0)
}

func (m *Batch) AppendStruct(v any) error {
	return m.Called(v).Error(0)
}

func (m *Batch) Column(id int) driver.BatchColumn {
	column, _ := m.Called(id).Get(0).(driver.BatchColumn)
	return column
}

func (m *Batch) Send() error {
	return m.Called().Error(0)
}

func (m *Batch) Abort() error {
	return m.Called().Error(0)
}

func (m *Batch) Flush() error {
	return m.Called().Error(0)
}

func (m *Batch) IsSent() bool {
	return m.Called().Bool(0)
}
