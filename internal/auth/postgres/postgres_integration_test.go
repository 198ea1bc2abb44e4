// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zoneboard Contributors

//go:build integration

package postgres_test

import (
	"errors"
	"net/url"

	"github.com/jackc/pgx/v5/pgxpool"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/zoneboard/zoneboard/internal/auth"
	authpg "github.com/zoneboard/zoneboard/internal/auth/postgres"
)

const testPasswordHash = auth.HashedPassword("$argon2id$v=19$m=65536,t=1,p=4$c2FsdHNhbHQ$ZGlnZXN0ZGlnZXN0")

// roleConnString builds a connection string for a provisioned role.
func roleConnString(username, password string) string {
	u, err := url.Parse(env.connStr)
	Expect(err).NotTo(HaveOccurred())
	u.User = url.UserPassword(username, password)
	return u.String()
}

var _ = Describe("UserRepository", func() {
	var repo *authpg.UserRepository

	BeforeEach(func() {
		repo = authpg.NewUserRepository(env.pool)
		_, err := env.pool.Exec(env.ctx, "DELETE FROM users")
		Expect(err).NotTo(HaveOccurred())
	})

	It("round-trips a user", func() {
		user, err := auth.NewUser("resident@example.org", testPasswordHash)
		Expect(err).NotTo(HaveOccurred())

		Expect(repo.Create(env.ctx, user)).To(Succeed())

		got, err := repo.GetByUsername(env.ctx, "resident@example.org")
		Expect(err).NotTo(HaveOccurred())
		Expect(got.ID).To(Equal(user.ID))
		Expect(got.Username).To(Equal(user.Username))
		Expect(got.PasswordHash).To(Equal(user.PasswordHash))
	})

	It("returns ErrNotFound for unknown usernames", func() {
		_, err := repo.GetByUsername(env.ctx, "ghost@example.org")
		Expect(errors.Is(err, auth.ErrNotFound)).To(BeTrue())
	})

	It("returns ErrConflict on duplicate usernames", func() {
		first, err := auth.NewUser("resident@example.org", testPasswordHash)
		Expect(err).NotTo(HaveOccurred())
		Expect(repo.Create(env.ctx, first)).To(Succeed())

		second, err := auth.NewUser("resident@example.org", testPasswordHash)
		Expect(err).NotTo(HaveOccurred())
		Expect(errors.Is(repo.Create(env.ctx, second), auth.ErrConflict)).To(BeTrue())
	})

	It("lists users ordered by username", func() {
		for _, name := range []string{"carol@example.org", "alice@example.org", "bob@example.org"} {
			user, err := auth.NewUser(name, testPasswordHash)
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.Create(env.ctx, user)).To(Succeed())
		}

		users, err := repo.List(env.ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(users).To(HaveLen(3))
		Expect(users[0].Username).To(Equal("alice@example.org"))
		Expect(users[2].Username).To(Equal("carol@example.org"))
	})
})

var _ = Describe("Provisioner", func() {
	var provisioner *authpg.Provisioner

	BeforeEach(func() {
		var err error
		provisioner, err = authpg.NewProvisioner(env.pool, "housing_reader")
		Expect(err).NotTo(HaveOccurred())
	})

	It("creates a role that can log in and read zoning", func() {
		Expect(provisioner.Provision(env.ctx, "reader@example.org", "s3cret-horse")).To(Succeed())

		rolePool, err := pgxpool.New(env.ctx, roleConnString("reader@example.org", "s3cret-horse"))
		Expect(err).NotTo(HaveOccurred())
		defer rolePool.Close()

		var count int
		err = rolePool.QueryRow(env.ctx, "SELECT count(*) FROM zoning").Scan(&count)
		Expect(err).NotTo(HaveOccurred())
	})

	It("denies the provisioned role access to credentials", func() {
		Expect(provisioner.Provision(env.ctx, "limited@example.org", "s3cret-horse")).To(Succeed())

		rolePool, err := pgxpool.New(env.ctx, roleConnString("limited@example.org", "s3cret-horse"))
		Expect(err).NotTo(HaveOccurred())
		defer rolePool.Close()

		var count int
		err = rolePool.QueryRow(env.ctx, "SELECT count(*) FROM users").Scan(&count)
		Expect(err).To(HaveOccurred())
	})

	It("fails when the role already exists", func() {
		Expect(provisioner.Provision(env.ctx, "twice@example.org", "s3cret-horse")).To(Succeed())
		Expect(provisioner.Provision(env.ctx, "twice@example.org", "s3cret-horse")).NotTo(Succeed())
	})

	It("provisions usernames with hostile characters without executing them", func() {
		hostile := `eve"; DROP TABLE users; --@example.org`
		Expect(provisioner.Provision(env.ctx, hostile, `it's a "password"`)).To(Succeed())

		var exists bool
		err := env.pool.QueryRow(env.ctx,
			"SELECT EXISTS (SELECT 1 FROM pg_roles WHERE rolname = $1)", hostile).Scan(&exists)
		Expect(err).NotTo(HaveOccurred())
		Expect(exists).To(BeTrue())

		// users table survived the attempted injection
		var count int
		Expect(env.pool.QueryRow(env.ctx, "SELECT count(*) FROM users").Scan(&count)).To(Succeed())
	})

	It("rejects usernames containing NUL bytes", func() {
		Expect(provisioner.Provision(env.ctx, "nul\x00byte@example.org", "pw")).NotTo(Succeed())
	})
})
