package migrate

// Target DDL for generation 2 and the fixed copy statements used when
// rebuilding a recognized legacy table. Column lists are never assembled
// from catalog introspection: each statement is written against one known,
// fully-typed shape.

const createUsersSQL = `
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	password_hash TEXT,
	email TEXT UNIQUE,
	created_at TIMESTAMPTZ
)`

const createUserProfileSQL = `
CREATE TABLE IF NOT EXISTS user_profile (
	user_id BIGINT PRIMARY KEY REFERENCES users (id),
	user_type TEXT,
	savings_goal DOUBLE PRECISION,
	risk_tolerance TEXT
)`

const createTransactionsSQL = `
CREATE TABLE IF NOT EXISTS transactions (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT REFERENCES users (id),
	tdate DATE,
	ttype TEXT,
	category TEXT,
	amount DOUBLE PRECISION,
	note TEXT
)`

const createHoldingsSQL = `
CREATE TABLE IF NOT EXISTS holdings (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT REFERENCES users (id),
	symbol TEXT NOT NULL,
	shares DOUBLE PRECISION NOT NULL,
	avg_price DOUBLE PRECISION,
	added_at TIMESTAMPTZ
)`

const createSavingsGoalsSQL = `
CREATE TABLE IF NOT EXISTS savings_goals (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT REFERENCES users (id),
	goal_name TEXT NOT NULL,
	target_amount DOUBLE PRECISION NOT NULL,
	current_amount DOUBLE PRECISION DEFAULT 0,
	deadline DATE,
	note TEXT,
	created_at TIMESTAMPTZ
)`

const createConfigSQL = `
CREATE TABLE IF NOT EXISTS config (
	key TEXT PRIMARY KEY,
	value TEXT
)`

// Shadow-table DDL. Identical shapes to the targets above; the _new table is
// renamed over the original inside the same transaction.

const createUsersShadowSQL = `
CREATE TABLE users_new (
	id BIGSERIAL PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	password_hash TEXT,
	email TEXT UNIQUE,
	created_at TIMESTAMPTZ
)`

const createUserProfileShadowSQL = `
CREATE TABLE user_profile_new (
	user_id BIGINT PRIMARY KEY REFERENCES users (id),
	user_type TEXT,
	savings_goal DOUBLE PRECISION,
	risk_tolerance TEXT
)`

const createTransactionsShadowSQL = `
CREATE TABLE transactions_new (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT REFERENCES users (id),
	tdate DATE,
	ttype TEXT,
	category TEXT,
	amount DOUBLE PRECISION,
	note TEXT
)`

const createHoldingsShadowSQL = `
CREATE TABLE holdings_new (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT REFERENCES users (id),
	symbol TEXT NOT NULL,
	shares DOUBLE PRECISION NOT NULL,
	avg_price DOUBLE PRECISION,
	added_at TIMESTAMPTZ
)`

const createSavingsGoalsShadowSQL = `
CREATE TABLE savings_goals_new (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT REFERENCES users (id),
	goal_name TEXT NOT NULL,
	target_amount DOUBLE PRECISION NOT NULL,
	current_amount DOUBLE PRECISION DEFAULT 0,
	deadline DATE,
	note TEXT,
	created_at TIMESTAMPTZ
)`

// Fixed copy statements for recognized generation-1 shapes. Missing values
// pick up the same defaults the application writes: empty strings for free
// text, zero amounts, "now" for synthesized timestamps. The legacy primary
// keys are preserved; sequences are resynced right after the copy.

const copyLegacyTransactionsSQL = `
INSERT INTO transactions_new (id, user_id, tdate, ttype, category, amount, note)
SELECT id::bigint,
       $1::bigint,
       COALESCE(tdate::date, CURRENT_DATE),
       COALESCE(ttype::text, ''),
       COALESCE(category::text, ''),
       COALESCE(amount::double precision, 0),
       COALESCE(note::text, '')
FROM transactions`

const copyLegacyHoldingsSQL = `
INSERT INTO holdings_new (id, user_id, symbol, shares, avg_price, added_at)
SELECT id::bigint,
       $1::bigint,
       symbol::text,
       COALESCE(shares::double precision, 0),
       avg_price::double precision,
       COALESCE(added_at::timestamptz, now())
FROM holdings`

const copyLegacySavingsGoalsSQL = `
INSERT INTO savings_goals_new (id, user_id, goal_name, target_amount, current_amount, deadline, note, created_at)
SELECT id::bigint,
       $1::bigint,
       goal_name::text,
       COALESCE(target_amount::double precision, 0),
       COALESCE(current_amount::double precision, 0),
       deadline::date,
       COALESCE(note::text, ''),
       COALESCE(created_at::timestamptz, now())
FROM savings_goals`
