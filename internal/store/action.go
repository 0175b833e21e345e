package store

import (
	"fmt"

	"github.com/debemdeboas/postdeck/internal/model"
)

// Op identifies the asynchronous operation an action reports on.
type Op int

const (
	OpFetchAll Op = iota
	OpCreate
	OpUpdate
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpFetchAll:
		return "fetch-all"
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// Phase is the lifecycle stage of an operation.
type Phase int

const (
	Pending Phase = iota
	Fulfilled
	Rejected
)

func (p Phase) String() string {
	switch p {
	case Pending:
		return "pending"
	case Fulfilled:
		return "fulfilled"
	case Rejected:
		return "rejected"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Action is the outcome of one phase of an operation.
type Action struct {
	Op    Op
	Phase Phase

	// Posts is the fetch-all payload.
	Posts []model.Post
	// Post is the create and update payload.
	Post model.Post
	// Arg is the id the operation was issued with (update, delete).
	Arg model.PostID

	Err error
}

func (a Action) String() string {
	return a.Op.String() + "/" + a.Phase.String()
}

func FetchAllPending() Action {
	return Action{Op: OpFetchAll, Phase: Pending}
}

func FetchAllFulfilled(posts []model.Post) Action {
	return Action{Op: OpFetchAll, Phase: Fulfilled, Posts: posts}
}

func CreateFulfilled(post model.Post) Action {
	return Action{Op: OpCreate, Phase: Fulfilled, Post: post}
}

func UpdateFulfilled(post model.Post) Action {
	return Action{Op: OpUpdate, Phase: Fulfilled, Post: post, Arg: post.ID}
}

// DeleteFulfilled carries only the id the delete was issued with.
func DeleteFulfilled(id model.PostID) Action {
	return Action{Op: OpDelete, Phase: Fulfilled, Arg: id}
}

func PendingAction(op Op, arg model.PostID) Action {
	return Action{Op: op, Phase: Pending, Arg: arg}
}

func RejectedAction(op Op, arg model.PostID, err error) Action {
	return Action{Op: op, Phase: Rejected, Arg: arg, Err: err}
}
