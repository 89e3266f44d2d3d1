package policy

import "testing"

func TestSelectUserShape(t *testing.T) {
	tests := []struct {
		name  string
		actor Actor
		want  UserShape
	}{
		{"user is role frozen", user, UserShapeRoleFrozen},
		{"moderator is role frozen", moderator, UserShapeRoleFrozen},
		{"admin edits role", admin, UserShapeAdmin},
		{"staff edits role", staff, UserShapeAdmin},
		{"superuser edits role", superuser, UserShapeAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SelectUserShape(ActionUpdate, tt.actor); got != tt.want {
				t.Errorf("SelectUserShape() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelectTitleShape(t *testing.T) {
	tests := []struct {
		action Action
		want   TitleShape
	}{
		{ActionList, TitleShapeRead},
		{ActionRetrieve, TitleShapeRead},
		{ActionCreate, TitleShapeWrite},
		{ActionUpdate, TitleShapeWrite},
		{ActionDelete, TitleShapeWrite},
	}

	for _, tt := range tests {
		if got := SelectTitleShape(tt.action); got != tt.want {
			t.Errorf("SelectTitleShape(%v) = %v, want %v", tt.action, got, tt.want)
		}
	}
}
