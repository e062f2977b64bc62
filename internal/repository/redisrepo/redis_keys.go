package redisrepo

import (
	"fmt"

	"github.com/google/uuid"
)

const (
	POST_KEY         = "post:%s"         // <postID>
	USER_PROFILE_KEY = "user-profile:%s" // <userID>
)

func PostKey(postID uuid.UUID) string {
	return fmt.Sprintf(POST_KEY, postID.String())
}

func UserProfileKey(userID uuid.UUID) string {
	return fmt.Sprintf(USER_PROFILE_KEY, userID.String())
}
