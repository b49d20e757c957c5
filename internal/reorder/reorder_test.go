package reorder_test

import (
	"reflect"
	"testing"

	"taskdeck/internal/reorder"
	"taskdeck/internal/service"
)

func task(id int64, status service.Status) service.Task {
	return service.Task{ID: id, Title: "t", Status: status, Priority: service.PriorityMedium}
}

func ids(tasks []service.Task) []int64 {
	out := make([]int64, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func board() []service.Task {
	return []service.Task{
		task(5, service.StatusTodo),
		task(1, service.StatusDone),
		task(2, service.StatusTodo),
		task(3, service.StatusDone),
		task(4, service.StatusInProgress),
	}
}

func TestResolve_Cancelled(t *testing.T) {
	ev := reorder.DropEvent{TaskID: 5, Source: reorder.Location{Group: "TODO"}}
	if _, ok := reorder.Resolve(board(), ev); ok {
		t.Error("expected cancelled drag to resolve to nothing")
	}
}

func TestResolve_UnknownTask(t *testing.T) {
	ev := reorder.DropEvent{
		TaskID:      99,
		Source:      reorder.Location{Group: "TODO"},
		Destination: &reorder.Location{Group: "DONE"},
	}
	if _, ok := reorder.Resolve(board(), ev); ok {
		t.Error("expected unknown task to resolve to nothing")
	}
}

func TestResolve_InvalidGroup(t *testing.T) {
	ev := reorder.DropEvent{
		TaskID:      5,
		Source:      reorder.Location{Group: "TODO"},
		Destination: &reorder.Location{Group: "ARCHIVED"},
	}
	if _, ok := reorder.Resolve(board(), ev); ok {
		t.Error("expected invalid destination group to resolve to nothing")
	}
}

func TestResolve_Kinds(t *testing.T) {
	tests := []struct {
		name   string
		group  string
		kind   reorder.Kind
		status service.Status
	}{
		{"list view", reorder.AllGroup, reorder.SameGroup, ""},
		{"own column", "TODO", reorder.SameGroup, ""},
		{"own column alias", "todo", reorder.SameGroup, ""},
		{"other column", "DONE", reorder.CrossGroup, service.StatusDone},
		{"other column alias", "doing", reorder.CrossGroup, service.StatusInProgress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := reorder.DropEvent{
				TaskID:      5,
				Source:      reorder.Location{Group: "TODO"},
				Destination: &reorder.Location{Group: tt.group, Index: 1},
			}
			plan, ok := reorder.Resolve(board(), ev)
			if !ok {
				t.Fatal("expected a plan")
			}
			if plan.Kind != tt.kind {
				t.Errorf("expected kind %v, got %v", tt.kind, plan.Kind)
			}
			if plan.NewStatus != tt.status {
				t.Errorf("expected new status %q, got %q", tt.status, plan.NewStatus)
			}
			if plan.Task.ID != 5 {
				t.Errorf("expected task 5, got %d", plan.Task.ID)
			}
		})
	}
}

func TestSplice_WithinList(t *testing.T) {
	tasks := board()
	got := reorder.Splice(tasks, tasks[0], reorder.AllGroup, 3)

	want := []int64{1, 2, 3, 5, 4}
	if !reflect.DeepEqual(ids(got), want) {
		t.Errorf("expected %v, got %v", want, ids(got))
	}
	if !reflect.DeepEqual(ids(tasks), []int64{5, 1, 2, 3, 4}) {
		t.Error("splice must not modify its input")
	}
}

func TestSplice_IntoOtherColumn(t *testing.T) {
	tasks := board()
	moved := tasks[0]
	moved.Status = service.StatusDone

	got := reorder.Splice(tasks, moved, "DONE", 2)

	done := reorder.Members(got, "DONE")
	if !reflect.DeepEqual(ids(done), []int64{1, 3, 5}) {
		t.Errorf("expected DONE column [1 3 5], got %v", ids(done))
	}
	if reorder.GroupIndex(got, "DONE", 5) != 2 {
		t.Errorf("expected task 5 at DONE index 2, got %d", reorder.GroupIndex(got, "DONE", 5))
	}
	if reorder.GroupIndex(got, "TODO", 5) != -1 {
		t.Error("task 5 must no longer be a TODO member")
	}
	if len(got) != len(tasks) {
		t.Errorf("expected %d tasks, got %d", len(tasks), len(got))
	}
}

func TestSplice_FrontOfColumn(t *testing.T) {
	tasks := board()
	got := reorder.Splice(tasks, tasks[3], "DONE", 0)

	if !reflect.DeepEqual(ids(reorder.Members(got, "DONE")), []int64{3, 1}) {
		t.Errorf("expected DONE column [3 1], got %v", ids(reorder.Members(got, "DONE")))
	}
}

func TestSplice_ClampsIndex(t *testing.T) {
	tasks := board()

	got := reorder.Splice(tasks, tasks[0], "TODO", 42)
	if !reflect.DeepEqual(ids(reorder.Members(got, "TODO")), []int64{2, 5}) {
		t.Errorf("expected TODO column [2 5], got %v", ids(reorder.Members(got, "TODO")))
	}

	got = reorder.Splice(tasks, tasks[2], "TODO", -3)
	if !reflect.DeepEqual(ids(reorder.Members(got, "TODO")), []int64{2, 5}) {
		t.Errorf("expected TODO column [2 5], got %v", ids(reorder.Members(got, "TODO")))
	}
}

func TestSplice_EmptyColumn(t *testing.T) {
	tasks := []service.Task{task(1, service.StatusTodo), task(2, service.StatusTodo)}
	moved := tasks[0]
	moved.Status = service.StatusDone

	got := reorder.Splice(tasks, moved, "DONE", 3)
	if !reflect.DeepEqual(ids(got), []int64{2, 1}) {
		t.Errorf("expected [2 1], got %v", ids(got))
	}
}
