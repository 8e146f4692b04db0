package myqueue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueuePath(t *testing.T) {
	q := &cloudTaskQueue{queuePath: queuePath("myproject", "europe-west3", "default")}
	assert.Equal(t, "projects/myproject/locations/europe-west3/queues/default", q.queuePath)
	assert.Equal(t, "projects/myproject/locations/europe-west3/queues/default/tasks/abc", q.taskPath("abc"))
}
