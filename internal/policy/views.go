package policy

// Action is the controller operation a view shape is chosen for.
type Action int

const (
	ActionList Action = iota
	ActionRetrieve
	ActionCreate
	ActionUpdate
	ActionDelete
)

// UserShape is the accepted field set for a user write.
type UserShape int

const (
	// UserShapeAdmin accepts every profile field including role.
	UserShapeAdmin UserShape = iota
	// UserShapeRoleFrozen accepts profile fields but ignores role.
	UserShapeRoleFrozen
)

// SelectUserShape picks the serializer shape for a user write. Only elevated
// actors may change roles.
func SelectUserShape(action Action, actor Actor) UserShape {
	if actor.Elevated() {
		return UserShapeAdmin
	}
	return UserShapeRoleFrozen
}

// TitleShape is the representation used for a title response.
type TitleShape int

const (
	// TitleShapeRead nests genre and category objects and carries rating.
	TitleShapeRead TitleShape = iota
	// TitleShapeWrite references genre and category by slug.
	TitleShapeWrite
)

// SelectTitleShape picks the title representation for action.
func SelectTitleShape(action Action) TitleShape {
	switch action {
	case ActionList, ActionRetrieve:
		return TitleShapeRead
	}
	return TitleShapeWrite
}
