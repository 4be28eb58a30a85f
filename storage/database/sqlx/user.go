package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/lms/core/user"
)

// roleTables maps each role to the table holding its people.
var roleTables = map[string]string{
	user.RoleAdministrator: "administrators",
	user.RoleProfessor:     "professors",
	user.RoleStudent:       "students",
}

// peopleQuery lists every person, whatever the role, with the lookup priority of the role.
const peopleQuery = `
	SELECT uid, fname, lname, dob, department_id, 'Student' AS role, 1 AS priority FROM students
	UNION ALL
	SELECT uid, fname, lname, dob, department_id, 'Professor' AS role, 2 AS priority FROM professors
	UNION ALL
	SELECT uid, fname, lname, dob, NULL::integer, 'Administrator' AS role, 3 AS priority FROM administrators`

type userRow struct {
	UID          string      `db:"uid"`
	FirstName    string      `db:"fname"`
	LastName     string      `db:"lname"`
	DOB          time.Time   `db:"dob"`
	Role         string      `db:"role"`
	Subject      null.String `db:"subject"`
	Department   null.String `db:"department"`
	PasswordHash null.Bytes  `db:"password_hash"`
	LastLogin    null.Time   `db:"last_login"`
}

func (row userRow) toUser() user.User {
	return user.User{
		UID:          row.UID,
		FirstName:    row.FirstName,
		LastName:     row.LastName,
		DOB:          row.DOB,
		Role:         row.Role,
		Subject:      row.Subject.String,
		Department:   row.Department.String,
		PasswordHash: row.PasswordHash.Bytes,
		LastLogin:    row.LastLogin.Time,
	}
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) GetUser(ctx context.Context, uid string) (user.User, error) {
	var row userRow
	q := `
		SELECT p.uid, p.fname, p.lname, p.dob, p.role,
		       d.subject, d.name AS department, a.password_hash, a.last_login
		FROM (` + peopleQuery + `) p
		JOIN accounts a ON a.uid = p.uid
		LEFT JOIN departments d ON d.id = p.department_id
		WHERE p.uid = $1
		ORDER BY p.priority
		LIMIT 1`
	if err := sqlx.GetContext(ctx, repo.db, &row, q, uid); err != nil {
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound, "selecting user")
	}
	return row.toUser(), nil
}

func (repo *userRepository) UIDExists(ctx context.Context, uid string) (bool, error) {
	var exists bool
	q := `SELECT EXISTS (SELECT 1 FROM accounts WHERE uid = $1)`
	err := sqlx.GetContext(ctx, repo.db, &exists, q, uid)
	return exists, errors.Wrap(err, "checking uid")
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	table, ok := roleTables[usr.Role]
	if !ok {
		return user.User{}, errors.Errorf("unknown role %q", usr.Role)
	}

	err := withTx(ctx, repo.db, func(tx *sqlx.Tx) error {
		q := `INSERT INTO accounts (uid, role, password_hash, last_login) VALUES ($1, $2, $3, $4)`
		lastLogin := null.NewTime(usr.LastLogin, !usr.LastLogin.IsZero())
		if _, err := tx.ExecContext(ctx, q, usr.UID, usr.Role, usr.PasswordHash, lastLogin); err != nil {
			return errors.Wrap(err, "inserting account")
		}

		if usr.Role == user.RoleAdministrator {
			usr.Subject, usr.Department = "", ""
			q = `INSERT INTO administrators (uid, fname, lname, dob) VALUES ($1, $2, $3, $4)`
			_, err := tx.ExecContext(ctx, q, usr.UID, usr.FirstName, usr.LastName, usr.DOB)
			return errors.Wrap(err, "inserting administrator")
		}

		var dept struct {
			ID   int    `db:"id"`
			Name string `db:"name"`
		}
		q = `SELECT id, name FROM departments WHERE subject = $1`
		if err := sqlx.GetContext(ctx, tx, &dept, q, usr.Subject); err != nil {
			return trapNoRowsErr(err, user.ErrDepartmentNotFound, "selecting department")
		}
		usr.Department = dept.Name

		q = `INSERT INTO ` + table + ` (uid, fname, lname, dob, department_id) VALUES ($1, $2, $3, $4, $5)`
		_, err := tx.ExecContext(ctx, q, usr.UID, usr.FirstName, usr.LastName, usr.DOB, dept.ID)
		return errors.Wrapf(err, "inserting into %s", table)
	})
	if err != nil {
		return user.User{}, err
	}
	return usr, nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	table, ok := roleTables[usr.Role]
	if !ok {
		return user.User{}, errors.Errorf("unknown role %q", usr.Role)
	}

	err := withTx(ctx, repo.db, func(tx *sqlx.Tx) error {
		q := `UPDATE accounts SET password_hash = $2, last_login = $3 WHERE uid = $1`
		lastLogin := null.NewTime(usr.LastLogin.UTC(), !usr.LastLogin.IsZero())
		res, err := tx.ExecContext(ctx, q, usr.UID, usr.PasswordHash, lastLogin)
		if err != nil {
			return errors.Wrap(err, "updating account")
		}
		if err = affectedOne(res, user.ErrNotFound); err != nil {
			return err
		}

		q = `UPDATE ` + table + ` SET fname = $2, lname = $3 WHERE uid = $1`
		_, err = tx.ExecContext(ctx, q, usr.UID, usr.FirstName, usr.LastName)
		return errors.Wrapf(err, "updating %s", table)
	})
	if err != nil {
		return user.User{}, err
	}
	return usr, nil
}

func (repo *userRepository) QueryProfessors(ctx context.Context, subject string) ([]user.User, error) {
	var rows []userRow
	q := `
		SELECT p.uid, p.fname, p.lname, p.dob, 'Professor' AS role,
		       d.subject, d.name AS department, a.password_hash, a.last_login
		FROM professors p
		JOIN accounts a ON a.uid = p.uid
		JOIN departments d ON d.id = p.department_id
		WHERE d.subject = $1
		ORDER BY p.lname, p.fname`
	if err := sqlx.SelectContext(ctx, repo.db, &rows, q, subject); err != nil {
		return nil, errors.Wrap(err, "selecting professors")
	}

	profs := make([]user.User, 0, len(rows))
	for _, row := range rows {
		profs = append(profs, row.toUser())
	}
	return profs, nil
}
