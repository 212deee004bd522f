package models

import "memories/db"

func Init() {
	db.Instance.AutoMigrate(&Group{})
	db.Instance.AutoMigrate(&Memory{})
	db.Instance.AutoMigrate(&Post{})
	db.Instance.AutoMigrate(&Comment{})
}
