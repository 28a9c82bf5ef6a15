package repository

import "testing"

func TestBuildTaskFilters_Empty(t *testing.T) {
	where, args := buildTaskFilters(TaskFilter{})
	if where != "" {
		t.Fatalf("expected empty where clause, got %q", where)
	}
	if len(args) != 0 {
		t.Fatalf("expected no args, got %+v", args)
	}
}

func TestBuildTaskFilters_Single(t *testing.T) {
	where, args := buildTaskFilters(TaskFilter{Status: "open"})
	if where != " WHERE status = $1" {
		t.Fatalf("unexpected where clause: %q", where)
	}
	if len(args) != 1 || args[0] != "open" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestBuildTaskFilters_All(t *testing.T) {
	where, args := buildTaskFilters(TaskFilter{
		Status:     "in_progress",
		CategoryID: "cat-1",
		AssigneeID: "user-1",
	})
	expected := " WHERE status = $1 AND category_id = $2 AND assignee_id = $3"
	if where != expected {
		t.Fatalf("unexpected where clause: %q", where)
	}
	if len(args) != 3 || args[0] != "in_progress" || args[1] != "cat-1" || args[2] != "user-1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestBuildTaskFilters_PlaceholdersStayPositional(t *testing.T) {
	// Con el status ausente, category debe seguir siendo $1.
	where, args := buildTaskFilters(TaskFilter{CategoryID: "cat-1", AssigneeID: "user-1"})
	expected := " WHERE category_id = $1 AND assignee_id = $2"
	if where != expected {
		t.Fatalf("unexpected where clause: %q", where)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}
