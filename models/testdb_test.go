package models

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database migrated with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection pins the in-memory database for the whole test and
	// serializes access, which sqlite needs under transactions.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(All()...))

	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *User {
	t.Helper()
	u := &User{
		Username:     username,
		Email:        fmt.Sprintf("%s@example.com", username),
		PasswordHash: "x",
		Role:         RoleUser,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedForum(t *testing.T, db *gorm.DB, owner *User, name, slugStr string) *Forum {
	t.Helper()
	f := &Forum{UserID: owner.ID, Name: name, Slug: slugStr, Description: "about " + name}
	require.NoError(t, db.Create(f).Error)
	return f
}

func seedPost(t *testing.T, db *gorm.DB, forum *Forum, author *User, title string) *Post {
	t.Helper()
	p := &Post{ForumID: forum.ID, UserID: author.ID, Title: title, Content: "body of " + title}
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedComment(t *testing.T, db *gorm.DB, post *Post, author *User, parentID *uint, content string) *Comment {
	t.Helper()
	c := &Comment{PostID: post.ID, UserID: author.ID, ParentID: parentID, Content: content}
	require.NoError(t, db.Create(c).Error)
	return c
}
