package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnakeCaser(t *testing.T) {
	tests := []struct {
		heading string
		want    string
	}{
		{"Create Task", "create_task"},
		{"createTask", "create_task"},
		{"getAllProjects", "get_all_projects"},
		{"  removeTask ", "remove_task"},
		{"get_version", "get_version"},
	}

	c := SnakeCaser{}
	for _, tt := range tests {
		t.Run(tt.heading, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Identifier(tt.heading))
		})
	}
}

func TestAnchor(t *testing.T) {
	assert.Equal(t, "create-task", Anchor("Create Task"))
	assert.Equal(t, "createtask", Anchor("createTask"))
	assert.Equal(t, "a-b", Anchor("  A \t  B "))
}

func TestDocURL(t *testing.T) {
	assert.Equal(t,
		"https://docs.kanboard.org/v1/api/task_procedures/#createtask",
		DocURL("https://docs.kanboard.org/v1/api/", "task_procedures", "createTask"))
	assert.Equal(t,
		"https://example.com/k/#create-task",
		DocURL("https://example.com", "k", "Create Task"))
}

func TestCaserFunc(t *testing.T) {
	var c Caser = CaserFunc(func(s string) string { return "x_" + s })
	assert.Equal(t, "x_y", c.Identifier("y"))
}
