package redisrepo

import "fmt"

const (
	POST_KEY        = "post:%d"          // <postID>
	CATEGORIES_KEY  = "categories"
	TAGS_KEY        = "tags"
	OWNER_POSTS_KEY = "owner:%s-posts:%s:%s" // <ownerID>:<sortColumn>:<order>
)

func PostKey(postID int64) string {
	return fmt.Sprintf(POST_KEY, postID)
}

func CategoriesKey() string {
	return CATEGORIES_KEY
}

func TagsKey() string {
	return TAGS_KEY
}

func OwnerPostsKey(ownerID string, sortColumn string, order string) string {
	return fmt.Sprintf(OWNER_POSTS_KEY, ownerID, sortColumn, order)
}
