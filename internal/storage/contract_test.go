package storage

import (
	"context"
	"errors"
	"testing"

	"taskmanager-api/internal/models"
	"taskmanager-api/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeFactory returns a fresh, empty store and a generator of well-formed
// IDs that no document uses
type storeFactory func(t *testing.T) (Store, func() string)

// runStoreContract exercises the list and task contract against any backend
func runStoreContract(t *testing.T, newStore storeFactory) {
	ctx := context.Background()

	t.Run("CreateList", func(t *testing.T) {
		store, _ := newStore(t)

		list, err := store.CreateList(ctx, models.CreateListRequest{Title: "  Groceries  "})
		require.NoError(t, err)
		assert.True(t, store.ValidID(list.ID))
		assert.Equal(t, "Groceries", list.Title)

		t.Run("rejects blank titles without persisting", func(t *testing.T) {
			for _, title := range []string{"", "   ", "\t\n"} {
				_, err := store.CreateList(ctx, models.CreateListRequest{Title: title})
				var verr *models.ValidationError
				assert.True(t, errors.As(err, &verr), "title %q", title)
			}

			lists, err := store.GetAllLists(ctx)
			require.NoError(t, err)
			assert.Len(t, lists, 1)
		})
	})

	t.Run("GetAllLists", func(t *testing.T) {
		store, _ := newStore(t)

		lists, err := store.GetAllLists(ctx)
		require.NoError(t, err)
		assert.NotNil(t, lists)
		assert.Empty(t, lists)

		titles := []string{"First", "Second", "Third"}
		for _, title := range titles {
			_, err := store.CreateList(ctx, models.CreateListRequest{Title: title})
			require.NoError(t, err)
		}

		lists, err = store.GetAllLists(ctx)
		require.NoError(t, err)
		require.Len(t, lists, 3)
		for i, title := range titles {
			assert.Equal(t, title, lists[i].Title)
		}
	})

	t.Run("GetListByID", func(t *testing.T) {
		store, newID := newStore(t)

		created, err := store.CreateList(ctx, models.CreateListRequest{Title: "Work"})
		require.NoError(t, err)

		list, err := store.GetListByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, list.ID)
		assert.Equal(t, "Work", list.Title)

		_, err = store.GetListByID(ctx, newID())
		assert.ErrorIs(t, err, ErrListNotFound)

		_, err = store.GetListByID(ctx, "not-an-id")
		assert.ErrorIs(t, err, ErrInvalidID)
	})

	t.Run("UpdateList", func(t *testing.T) {
		store, newID := newStore(t)

		created, err := store.CreateList(ctx, models.CreateListRequest{Title: "Original"})
		require.NoError(t, err)

		t.Run("replaces the title", func(t *testing.T) {
			err := store.UpdateList(ctx, created.ID, models.UpdateListRequest{Title: testutil.StringPtr(" Renamed ")})
			require.NoError(t, err)

			list, err := store.GetListByID(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, "Renamed", list.Title)
		})

		t.Run("empty update leaves the list alone", func(t *testing.T) {
			require.NoError(t, store.UpdateList(ctx, created.ID, models.UpdateListRequest{}))

			list, err := store.GetListByID(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, "Renamed", list.Title)
		})

		t.Run("rejects a blank title", func(t *testing.T) {
			err := store.UpdateList(ctx, created.ID, models.UpdateListRequest{Title: testutil.StringPtr("  ")})
			assert.ErrorIs(t, err, models.ErrTitleRequired)

			list, err := store.GetListByID(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, "Renamed", list.Title)
		})

		t.Run("reports a missing list", func(t *testing.T) {
			err := store.UpdateList(ctx, newID(), models.UpdateListRequest{Title: testutil.StringPtr("X")})
			assert.ErrorIs(t, err, ErrListNotFound)

			err = store.UpdateList(ctx, newID(), models.UpdateListRequest{})
			assert.ErrorIs(t, err, ErrListNotFound)
		})
	})

	t.Run("DeleteList", func(t *testing.T) {
		store, _ := newStore(t)

		list, err := store.CreateList(ctx, models.CreateListRequest{Title: "Doomed"})
		require.NoError(t, err)
		task, err := store.CreateTask(ctx, list.ID, models.CreateTaskRequest{Title: "Orphan"})
		require.NoError(t, err)

		removed, err := store.DeleteList(ctx, list.ID)
		require.NoError(t, err)
		assert.Equal(t, list.ID, removed.ID)
		assert.Equal(t, "Doomed", removed.Title)

		_, err = store.DeleteList(ctx, list.ID)
		assert.ErrorIs(t, err, ErrListNotFound)

		lists, err := store.GetAllLists(ctx)
		require.NoError(t, err)
		assert.Empty(t, lists)

		// deletion does not cascade
		orphan, err := store.GetTaskByID(ctx, list.ID, task.ID)
		require.NoError(t, err)
		assert.Equal(t, task.ID, orphan.ID)
	})

	t.Run("CreateTask", func(t *testing.T) {
		store, newID := newStore(t)

		list, err := store.CreateList(ctx, models.CreateListRequest{Title: "Groceries"})
		require.NoError(t, err)

		task, err := store.CreateTask(ctx, list.ID, models.CreateTaskRequest{Title: " Milk "})
		require.NoError(t, err)
		assert.True(t, store.ValidID(task.ID))
		assert.Equal(t, "Milk", task.Title)
		assert.Equal(t, list.ID, task.ListID)

		t.Run("accepts a list that does not exist", func(t *testing.T) {
			ghost := newID()
			task, err := store.CreateTask(ctx, ghost, models.CreateTaskRequest{Title: "Floating"})
			require.NoError(t, err)
			assert.Equal(t, ghost, task.ListID)
		})

		t.Run("rejects a blank title without persisting", func(t *testing.T) {
			_, err := store.CreateTask(ctx, list.ID, models.CreateTaskRequest{Title: " "})
			assert.ErrorIs(t, err, models.ErrTitleRequired)

			tasks, err := store.GetTasksByList(ctx, list.ID)
			require.NoError(t, err)
			assert.Len(t, tasks, 1)
		})

		t.Run("rejects a malformed list ID", func(t *testing.T) {
			_, err := store.CreateTask(ctx, "bogus", models.CreateTaskRequest{Title: "Milk"})
			assert.ErrorIs(t, err, ErrInvalidID)
		})
	})

	t.Run("GetTasksByList", func(t *testing.T) {
		store, newID := newStore(t)

		listA, err := store.CreateList(ctx, models.CreateListRequest{Title: "A"})
		require.NoError(t, err)
		listB, err := store.CreateList(ctx, models.CreateListRequest{Title: "B"})
		require.NoError(t, err)

		for _, title := range []string{"a1", "a2", "a3"} {
			_, err := store.CreateTask(ctx, listA.ID, models.CreateTaskRequest{Title: title})
			require.NoError(t, err)
		}
		_, err = store.CreateTask(ctx, listB.ID, models.CreateTaskRequest{Title: "b1"})
		require.NoError(t, err)

		tasks, err := store.GetTasksByList(ctx, listA.ID)
		require.NoError(t, err)
		require.Len(t, tasks, 3)
		assert.Equal(t, "a1", tasks[0].Title)
		assert.Equal(t, "a2", tasks[1].Title)
		assert.Equal(t, "a3", tasks[2].Title)
		for _, task := range tasks {
			assert.Equal(t, listA.ID, task.ListID)
		}

		tasks, err = store.GetTasksByList(ctx, listB.ID)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "b1", tasks[0].Title)

		tasks, err = store.GetTasksByList(ctx, newID())
		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	})

	t.Run("scoping", func(t *testing.T) {
		store, newID := newStore(t)

		home, err := store.CreateList(ctx, models.CreateListRequest{Title: "Home"})
		require.NoError(t, err)
		work, err := store.CreateList(ctx, models.CreateListRequest{Title: "Work"})
		require.NoError(t, err)
		task, err := store.CreateTask(ctx, home.ID, models.CreateTaskRequest{Title: "Laundry"})
		require.NoError(t, err)

		t.Run("get through the wrong list is not found", func(t *testing.T) {
			_, err := store.GetTaskByID(ctx, work.ID, task.ID)
			assert.ErrorIs(t, err, ErrTaskNotFound)

			got, err := store.GetTaskByID(ctx, home.ID, task.ID)
			require.NoError(t, err)
			assert.Equal(t, "Laundry", got.Title)
		})

		t.Run("update through the wrong list changes nothing", func(t *testing.T) {
			err := store.UpdateTask(ctx, work.ID, task.ID, models.UpdateTaskRequest{Title: testutil.StringPtr("Hijacked")})
			assert.ErrorIs(t, err, ErrTaskNotFound)

			err = store.UpdateTask(ctx, work.ID, task.ID, models.UpdateTaskRequest{})
			assert.ErrorIs(t, err, ErrTaskNotFound)

			got, err := store.GetTaskByID(ctx, home.ID, task.ID)
			require.NoError(t, err)
			assert.Equal(t, "Laundry", got.Title)
		})

		t.Run("delete through the wrong list removes nothing", func(t *testing.T) {
			_, err := store.DeleteTask(ctx, work.ID, task.ID)
			assert.ErrorIs(t, err, ErrTaskNotFound)

			_, err = store.GetTaskByID(ctx, home.ID, task.ID)
			assert.NoError(t, err)
		})

		t.Run("unknown task is not found", func(t *testing.T) {
			_, err := store.GetTaskByID(ctx, home.ID, newID())
			assert.ErrorIs(t, err, ErrTaskNotFound)
		})

		t.Run("malformed task ID is rejected", func(t *testing.T) {
			_, err := store.GetTaskByID(ctx, home.ID, "123")
			assert.ErrorIs(t, err, ErrInvalidID)
		})
	})

	t.Run("UpdateTask", func(t *testing.T) {
		store, _ := newStore(t)

		list, err := store.CreateList(ctx, models.CreateListRequest{Title: "Chores"})
		require.NoError(t, err)
		task, err := store.CreateTask(ctx, list.ID, models.CreateTaskRequest{Title: "Dishes"})
		require.NoError(t, err)

		err = store.UpdateTask(ctx, list.ID, task.ID, models.UpdateTaskRequest{Title: testutil.StringPtr("  Dry dishes ")})
		require.NoError(t, err)

		got, err := store.GetTaskByID(ctx, list.ID, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "Dry dishes", got.Title)
		assert.Equal(t, list.ID, got.ListID)

		err = store.UpdateTask(ctx, list.ID, task.ID, models.UpdateTaskRequest{Title: testutil.StringPtr("")})
		assert.ErrorIs(t, err, models.ErrTitleRequired)
	})

	t.Run("DeleteTask", func(t *testing.T) {
		store, _ := newStore(t)

		list, err := store.CreateList(ctx, models.CreateListRequest{Title: "Chores"})
		require.NoError(t, err)
		task, err := store.CreateTask(ctx, list.ID, models.CreateTaskRequest{Title: "Vacuum"})
		require.NoError(t, err)

		removed, err := store.DeleteTask(ctx, list.ID, task.ID)
		require.NoError(t, err)
		assert.Equal(t, task.ID, removed.ID)
		assert.Equal(t, "Vacuum", removed.Title)
		assert.Equal(t, list.ID, removed.ListID)

		_, err = store.GetTaskByID(ctx, list.ID, task.ID)
		assert.ErrorIs(t, err, ErrTaskNotFound)

		_, err = store.DeleteTask(ctx, list.ID, task.ID)
		assert.ErrorIs(t, err, ErrTaskNotFound)

		tasks, err := store.GetTasksByList(ctx, list.ID)
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})
}
