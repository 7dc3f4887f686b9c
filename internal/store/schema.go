package store

// DDL is written once in the dialect subset shared by Postgres, MySQL
// and SQLite. The category table is named post_groups because GROUPS is
// a reserved word in MySQL 8.

func usersSchema() string {
	return `
		CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(64) PRIMARY KEY,
			username VARCHAR(150) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			created_at TIMESTAMP NOT NULL
		);
	`
}

func groupsSchema() string {
	return `
		CREATE TABLE IF NOT EXISTS post_groups (
			id VARCHAR(64) PRIMARY KEY,
			title VARCHAR(200) NOT NULL,
			slug VARCHAR(200) NOT NULL UNIQUE,
			description TEXT NOT NULL
		);
	`
}

func postsSchema() string {
	return `
		CREATE TABLE IF NOT EXISTS posts (
			id VARCHAR(64) PRIMARY KEY,
			content TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			author_id VARCHAR(64) NOT NULL,
			group_id VARCHAR(64),
			image VARCHAR(255) NOT NULL DEFAULT '',
			FOREIGN KEY (author_id) REFERENCES users (id) ON DELETE CASCADE,
			FOREIGN KEY (group_id) REFERENCES post_groups (id) ON DELETE SET NULL
		);
	`
}

func commentsSchema() string {
	return `
		CREATE TABLE IF NOT EXISTS comments (
			id VARCHAR(64) PRIMARY KEY,
			post_id VARCHAR(64) NOT NULL,
			author_id VARCHAR(64) NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			FOREIGN KEY (post_id) REFERENCES posts (id) ON DELETE CASCADE,
			FOREIGN KEY (author_id) REFERENCES users (id) ON DELETE CASCADE
		);
	`
}

func followsSchema() string {
	return `
		CREATE TABLE IF NOT EXISTS follows (
			user_id VARCHAR(64) NOT NULL,
			author_id VARCHAR(64) NOT NULL,
			PRIMARY KEY (user_id, author_id),
			CHECK (user_id <> author_id),
			FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE,
			FOREIGN KEY (author_id) REFERENCES users (id) ON DELETE CASCADE
		);
	`
}
