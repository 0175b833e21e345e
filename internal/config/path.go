package config

const (
	PostsPath   = "/posts"
	PostPath    = PostsPath + "/{id}"
	PostsPrefix = PostsPath + "/"
)
