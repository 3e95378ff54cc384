package main

import (
	"fmt"

	"github.com/RushuiGuan/reflection"
)

type User struct {
	Name  string
	Email *string
}

func main() {
	user := User{Name: "Alice"}

	// Missing member
	_, err := reflection.GetString(user, "Phone")
	// err wraps ErrMemberNotFound
	fmt.Println(err)

	// Nil field
	email, err := reflection.GetString(user, "Email")
	// email = "", err = nil (nil resolves to the zero value)
	fmt.Println(email, err)

	// The declared type survives a nil value
	res, _ := reflection.Resolve(user, "Email")
	// res.Value = nil, res.Type = *string
	fmt.Println(res.Value, res.Type)
}
