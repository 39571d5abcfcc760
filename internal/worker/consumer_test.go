package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSQS struct {
	mu         sync.Mutex
	batches    [][]types.Message
	deleted    []string
	visibility map[string]int32
}

func (f *fakeSQS) ReceiveMessage(ctx context.Context, _ *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	f.mu.Lock()
	if len(f.batches) > 0 {
		batch := f.batches[0]
		f.batches = f.batches[1:]
		f.mu.Unlock()
		return &sqs.ReceiveMessageOutput{Messages: batch}, nil
	}
	f.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(5 * time.Millisecond):
		return &sqs.ReceiveMessageOutput{}, nil
	}
}

func (f *fakeSQS) DeleteMessage(_ context.Context, in *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, aws.ToString(in.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

func (f *fakeSQS) ChangeMessageVisibility(_ context.Context, in *sqs.ChangeMessageVisibilityInput, _ ...func(*sqs.Options)) (*sqs.ChangeMessageVisibilityOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visibility[aws.ToString(in.ReceiptHandle)] = in.VisibilityTimeout
	return &sqs.ChangeMessageVisibilityOutput{}, nil
}

type outcome struct {
	retry bool
	delay int32
	err   error
}

type scriptedProcessor struct {
	mu       sync.Mutex
	outcomes map[string]outcome
	seen     int
	done     chan struct{}
	expected int
}

func (p *scriptedProcessor) Process(_ context.Context, msg types.Message) (bool, int32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	o := p.outcomes[aws.ToString(msg.Body)]
	p.seen++
	if p.seen == p.expected {
		close(p.done)
	}
	return o.retry, o.delay, o.err
}

func msg(body string) types.Message {
	return types.Message{
		MessageId:     aws.String("id-" + body),
		ReceiptHandle: aws.String("rh-" + body),
		Body:          aws.String(body),
	}
}

func TestWorker_HandlesOutcomes(t *testing.T) {
	client := &fakeSQS{
		batches:    [][]types.Message{{msg("ok"), msg("retry"), msg("bad")}},
		visibility: map[string]int32{},
	}
	proc := &scriptedProcessor{
		outcomes: map[string]outcome{
			"ok":    {},
			"retry": {retry: true, delay: 40, err: errors.New("downstream busy")},
			"bad":   {err: errors.New("malformed")},
		},
		done:     make(chan struct{}),
		expected: 3,
	}

	w := NewWorker(client, "queue-url", proc)
	w.Concurrency = 2
	w.WaitTimeSeconds = 0

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(stopped)
	}()

	select {
	case <-proc.done:
	case <-time.After(2 * time.Second):
		t.Fatal("messages were not processed")
	}
	cancel()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}

	client.mu.Lock()
	defer client.mu.Unlock()
	assert.Equal(t, []string{"rh-ok"}, client.deleted)
	require.Contains(t, client.visibility, "rh-retry")
	assert.Equal(t, int32(40), client.visibility["rh-retry"])
	assert.NotContains(t, client.visibility, "rh-bad")
}

func TestCalculateBackoff(t *testing.T) {
	assert.Equal(t, int32(20), CalculateBackoff(1))
	assert.Equal(t, int32(40), CalculateBackoff(2))
	assert.Equal(t, int32(2560), CalculateBackoff(8))
	assert.Equal(t, int32(3600), CalculateBackoff(9))
	assert.Equal(t, int32(3600), CalculateBackoff(100))
}
