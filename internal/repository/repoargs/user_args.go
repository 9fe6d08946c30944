package repoargs

type CreateUser struct {
	Username          string
	Email             string
	EncryptedPassword string
	VIPLevelID        int64
}
