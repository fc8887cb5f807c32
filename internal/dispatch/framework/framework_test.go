package framework

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bitleak/lmstfy/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/pkg/logger"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/dispatch/pkg/lmstfyx"
)

// fakeSource 内存消息源
type fakeSource struct {
	mu      sync.Mutex
	pending []*Message
	acked   []string
	buried  []string
}

func (f *fakeSource) Consume(queue string, timeout time.Duration, ttr time.Duration) (*Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.pending) == 0 {
		return nil, nil
	}
	msg := f.pending[0]
	f.pending = f.pending[1:]
	return msg, nil
}

func (f *fakeSource) Ack(queue string, jobID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acked = append(f.acked, jobID)
	return nil
}

func (f *fakeSource) Release(queue string, jobID string, delay time.Duration) error {
	return nil
}

func (f *fakeSource) Bury(queue string, jobID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buried = append(f.buried, jobID)
	return nil
}

func (f *fakeSource) ackedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.acked)
}

func testConfigs(queue string) (*SubscriberConfig, *ProcessorConfig) {
	subCfg := &SubscriberConfig{
		QueueName:    queue,
		Concurrency:  1,
		Timeout:      10 * time.Millisecond,
		TTR:          time.Second,
		Rate:         time.Millisecond,
		ErrorBackoff: time.Millisecond,
	}
	procCfg := &ProcessorConfig{
		Concurrency:  2,
		BufferSize:   10,
		Timeout:      time.Second,
		ReleaseDelay: time.Second,
	}
	return subCfg, procCfg
}

func TestSubscriberProcessorPipeline(t *testing.T) {
	source := &fakeSource{}
	for i := 0; i < 5; i++ {
		source.pending = append(source.pending, &Message{
			ID:    fmt.Sprintf("job-%d", i),
			Queue: "test_queue",
			Data:  []byte("{}"),
		})
	}

	var processed sync.Map
	proc := func(ctx context.Context, job *client.Job) *lmstfyx.JobResp {
		processed.Store(job.ID, true)
		return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusSuccess}
	}

	subCfg, procCfg := testConfigs("test_queue")
	log := logger.NopLogger{}

	inputChan := make(chan *Message, procCfg.BufferSize)
	subscriber := NewSubscriber(subCfg, source, log)
	processor := NewProcessor(procCfg, proc, source, log)

	ctx := context.Background()
	require.NoError(t, processor.Start(ctx, inputChan))
	require.NoError(t, subscriber.Start(ctx, inputChan))

	// 等待全部消息被 ACK
	deadline := time.Now().Add(2 * time.Second)
	for source.ackedCount() < 5 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	// 优雅退出链路
	subscriber.Stop()
	subscriber.Wait()
	processor.SignalShutdown()
	processor.Wait()

	assert.Equal(t, 5, source.ackedCount())
	for i := 0; i < 5; i++ {
		_, ok := processed.Load(fmt.Sprintf("job-%d", i))
		assert.True(t, ok, "job-%d not processed", i)
	}
}

func TestProcessorBuriesFailedMessage(t *testing.T) {
	source := &fakeSource{}
	source.pending = append(source.pending, &Message{
		ID:    "bad-job",
		Queue: "test_queue",
		Data:  []byte("not json"),
	})

	proc := func(ctx context.Context, job *client.Job) *lmstfyx.JobResp {
		return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusBury}
	}

	subCfg, procCfg := testConfigs("test_queue")
	log := logger.NopLogger{}

	inputChan := make(chan *Message, procCfg.BufferSize)
	subscriber := NewSubscriber(subCfg, source, log)
	processor := NewProcessor(procCfg, proc, source, log)

	ctx := context.Background()
	require.NoError(t, processor.Start(ctx, inputChan))
	require.NoError(t, subscriber.Start(ctx, inputChan))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		source.mu.Lock()
		buried := len(source.buried)
		source.mu.Unlock()
		if buried > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	subscriber.Stop()
	subscriber.Wait()
	processor.SignalShutdown()
	processor.Wait()

	assert.Equal(t, []string{"bad-job"}, source.buried)
	assert.Empty(t, source.acked)
}
