package myqueue

import (
	"context"
	"fmt"
	"os"
	"time"

	cloudtasks "cloud.google.com/go/cloudtasks/apiv2"
	taskspb "cloud.google.com/go/cloudtasks/apiv2/cloudtaskspb"
	grpcCodes "google.golang.org/grpc/codes"
	grpcStatus "google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/MarcGrol/fbloginbackend/lib/mylog"
)

const (
	dispatchDelay    = 2 * time.Second
	defaultQueueName = "default"
)

type cloudTaskQueue struct {
	client    *cloudtasks.Client
	queuePath string
	logger    mylog.Logger
}

func init() {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") != "" {
		New = newCloudTaskQueue
	}
}

func newCloudTaskQueue(c context.Context) (TaskQueuer, func(), error) {
	client, err := cloudtasks.NewClient(c)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating cloudtasks client: %s", err)
	}

	queueName := os.Getenv("QUEUE_NAME")
	if queueName == "" {
		queueName = defaultQueueName
	}

	return &cloudTaskQueue{
			client:    client,
			queuePath: queuePath(os.Getenv("GOOGLE_CLOUD_PROJECT"), os.Getenv("LOCATION_ID"), queueName),
			logger:    mylog.New("myqueue"),
		}, func() {
			client.Close()
		}, nil
}

// Enqueue schedules a PUT on the outbox webhook; the task name equals the outbox uid so a retry of the same publish is dropped.
func (q *cloudTaskQueue) Enqueue(c context.Context, task Task) error {
	taskName := q.taskPath(task.UID)
	_, err := q.client.CreateTask(c, &taskspb.CreateTaskRequest{
		Parent: q.queuePath,
		Task: &taskspb.Task{
			Name:         taskName,
			ScheduleTime: timestamppb.New(time.Now().Add(dispatchDelay)), // wait for the transaction to commit
			MessageType: &taskspb.Task_AppEngineHttpRequest{
				AppEngineHttpRequest: &taskspb.AppEngineHttpRequest{
					HttpMethod:  taskspb.HttpMethod_PUT,
					RelativeUri: task.WebhookURLPath,
					Body:        task.Payload,
				},
			},
		},
	})
	if err != nil {
		st, ok := grpcStatus.FromError(err)
		if ok && st.Code() == grpcCodes.AlreadyExists {
			q.logger.Log(c, task.UID, mylog.SeverityInfo, "Task %s already scheduled", task.UID)
			return nil
		}
		return fmt.Errorf("error creating task %s: %s", taskName, err)
	}

	return nil
}

// DispatchAttempts returns how often the task was dispatched and the max attempts of the queue (-1 when unknown).
func (q *cloudTaskQueue) DispatchAttempts(c context.Context, taskUID string) (int32, int32) {
	var maxAttempts int32 = -1

	queue, err := q.client.GetQueue(c, &taskspb.GetQueueRequest{Name: q.queuePath})
	if err != nil {
		q.logger.Log(c, taskUID, mylog.SeverityWarn, "Error fetching queue %s: %s", q.queuePath, err)
		return 0, maxAttempts
	}
	if queue.RetryConfig != nil {
		maxAttempts = queue.RetryConfig.MaxAttempts
	}

	task, err := q.client.GetTask(c, &taskspb.GetTaskRequest{Name: q.taskPath(taskUID)})
	if err != nil {
		q.logger.Log(c, taskUID, mylog.SeverityWarn, "Error fetching task %s: %s", taskUID, err)
		return 0, maxAttempts
	}

	return task.DispatchCount, maxAttempts
}

func (q *cloudTaskQueue) taskPath(taskUID string) string {
	return fmt.Sprintf("%s/tasks/%s", q.queuePath, taskUID)
}

func queuePath(projectID, locationID, queueName string) string {
	return fmt.Sprintf("projects/%s/locations/%s/queues/%s", projectID, locationID, queueName)
}
