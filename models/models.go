package models

// All returns every model in migration order, for AutoMigrate at boot and in
// test setups.
func All() []interface{} {
	return []interface{}{
		&User{},
		&UserFollower{},
		&Forum{},
		&UserGame{},
		&Post{},
		&PostTag{},
		&PostVote{},
		&SavedPost{},
		&Comment{},
		&CommentVote{},
		&Conversation{},
		&ConversationUser{},
		&Message{},
		&News{},
	}
}
