package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/certforge/CertPrepApi/models"
	"github.com/certforge/CertPrepApi/utils"
)

func (db *DB) CreateUser(req models.UserRequest) (*models.User, error) {
	utils.LogDB("Creating user: %s", req.Username)
	start := time.Now()

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	result, err := db.Exec(`
        INSERT INTO users (username, email, password_hash)
        VALUES (?, ?, ?)
    `, req.Username, req.Email, passwordHash)

	if err != nil {
		utils.LogError("CreateUser failed: %v", err)
		return nil, fmt.Errorf("username or email already taken")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	duration := time.Since(start)
	utils.LogDB("User created with ID %d in %v", id, duration)

	return db.GetUserByID(int(id))
}

// GetAllUsers lists every account, oldest first. Used by the digest sweep.
func (db *DB) GetAllUsers() ([]models.User, error) {
	rows, err := db.Query(`SELECT id, username, email, created_at FROM users ORDER BY id ASC`)
	if err != nil {
		utils.LogError("GetAllUsers failed: %v", err)
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt); err != nil {
			utils.LogError("Failed to scan user row: %v", err)
			return nil, err
		}
		users = append(users, u)
	}

	return users, nil
}

func (db *DB) GetUserByID(id int) (*models.User, error) {
	var u models.User

	err := db.QueryRow(`
        SELECT id, username, email, created_at FROM users WHERE id = ?
    `, id).Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt)

	if err != nil {
		if err != sql.ErrNoRows {
			utils.LogError("GetUserByID(%d) failed: %v", id, err)
		}
		return nil, err
	}

	return &u, nil
}

func (db *DB) GetUserByUsername(username string) (*models.User, error) {
	var u models.User

	err := db.QueryRow(`
        SELECT id, username, email, created_at FROM users WHERE username = ?
    `, username).Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt)

	if err != nil {
		if err != sql.ErrNoRows {
			utils.LogError("GetUserByUsername(%s) failed: %v", username, err)
		}
		return nil, err
	}

	return &u, nil
}

func (db *DB) AuthenticateUser(username, password string) (*models.User, error) {
	var u models.User
	var passwordHash string

	err := db.QueryRow(`
        SELECT id, username, email, password_hash, created_at FROM users WHERE username = ?
    `, username).Scan(&u.ID, &u.Username, &u.Email, &passwordHash, &u.CreatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("invalid credentials")
		}
		utils.LogError("AuthenticateUser(%s) failed: %v", username, err)
		return nil, err
	}

	if !utils.CheckPassword(passwordHash, password) {
		return nil, fmt.Errorf("invalid credentials")
	}

	return &u, nil
}
