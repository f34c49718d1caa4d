package main

import (
	"github.com/hungertracker/hungerd/pkg/client"
)

type globalOptions struct {
	serverURL       string
	credentialsPath string
}

func (o *globalOptions) newClient() *client.Client {
	store := &client.FileTokenStore{Path: o.credentialsPath}
	return client.New(o.serverURL, client.WithTokenStore(store))
}

func registerParams(email, password, username, name, phone string) client.RegisterParams {
	return client.RegisterParams{
		Email:    email,
		Password: password,
		Username: username,
		Name:     name,
		Phone:    phone,
	}
}

func profileUpdate(name, username, bio *string) client.ProfileUpdate {
	return client.ProfileUpdate{Name: name, Username: username, Bio: bio}
}
