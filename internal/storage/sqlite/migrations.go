package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// IMPORTANT: parent tables must be created before children due to
// foreign key constraints.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS trips (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    name TEXT NOT NULL,
    destination TEXT NOT NULL,
    duration INTEGER NOT NULL,
    start_date TEXT,
    budget TEXT,
    target_budget REAL NOT NULL DEFAULT 0,
    currency TEXT NOT NULL,
    insights_content TEXT,
    insights_fetched TEXT,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS insight_sources (
    trip_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    title TEXT NOT NULL,
    uri TEXT NOT NULL,
    PRIMARY KEY (trip_id, position),
    FOREIGN KEY (trip_id) REFERENCES trips(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS itinerary_days (
    trip_id TEXT NOT NULL,
    day INTEGER NOT NULL,
    theme TEXT NOT NULL,
    PRIMARY KEY (trip_id, day),
    FOREIGN KEY (trip_id) REFERENCES trips(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS itinerary_activities (
    trip_id TEXT NOT NULL,
    day INTEGER NOT NULL,
    position INTEGER NOT NULL,
    time TEXT NOT NULL,
    activity TEXT NOT NULL,
    location TEXT NOT NULL,
    description TEXT NOT NULL,
    estimated_cost TEXT,
    PRIMARY KEY (trip_id, day, position),
    FOREIGN KEY (trip_id, day) REFERENCES itinerary_days(trip_id, day) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS flights (
    id TEXT PRIMARY KEY,
    trip_id TEXT NOT NULL,
    airline TEXT NOT NULL,
    flight_number TEXT NOT NULL,
    departure_airport TEXT NOT NULL,
    arrival_airport TEXT NOT NULL,
    departure_time TEXT NOT NULL,
    arrival_time TEXT NOT NULL,
    price REAL NOT NULL DEFAULT 0,
    status TEXT,
    FOREIGN KEY (trip_id) REFERENCES trips(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS travelers (
    id TEXT PRIMARY KEY,
    trip_id TEXT NOT NULL,
    name TEXT NOT NULL,
    FOREIGN KEY (trip_id) REFERENCES trips(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS expense_folders (
    id TEXT PRIMARY KEY,
    trip_id TEXT NOT NULL,
    name TEXT NOT NULL,
    FOREIGN KEY (trip_id) REFERENCES trips(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS trip_categories (
    trip_id TEXT NOT NULL,
    name TEXT NOT NULL,
    PRIMARY KEY (trip_id, name),
    FOREIGN KEY (trip_id) REFERENCES trips(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS expenses (
    id TEXT PRIMARY KEY,
    trip_id TEXT NOT NULL,
    folder_id TEXT,
    description TEXT NOT NULL,
    amount REAL NOT NULL,
    date TEXT NOT NULL,
    category TEXT NOT NULL,
    payer_id TEXT NOT NULL,
    FOREIGN KEY (trip_id) REFERENCES trips(id) ON DELETE CASCADE,
    FOREIGN KEY (folder_id) REFERENCES expense_folders(id) ON DELETE SET NULL,
    FOREIGN KEY (payer_id) REFERENCES travelers(id)
);

CREATE TABLE IF NOT EXISTS expense_splits (
    expense_id TEXT NOT NULL,
    traveler_id TEXT NOT NULL,
    PRIMARY KEY (expense_id, traveler_id),
    FOREIGN KEY (expense_id) REFERENCES expenses(id) ON DELETE CASCADE,
    FOREIGN KEY (traveler_id) REFERENCES travelers(id)
);

CREATE INDEX IF NOT EXISTS idx_trips_user_id ON trips(user_id);
CREATE INDEX IF NOT EXISTS idx_flights_trip_id ON flights(trip_id);
CREATE INDEX IF NOT EXISTS idx_travelers_trip_id ON travelers(trip_id);
CREATE INDEX IF NOT EXISTS idx_expense_folders_trip_id ON expense_folders(trip_id);
CREATE INDEX IF NOT EXISTS idx_expenses_trip_id ON expenses(trip_id);
CREATE INDEX IF NOT EXISTS idx_expenses_folder_id ON expenses(folder_id);
CREATE INDEX IF NOT EXISTS idx_expense_splits_expense_id ON expense_splits(expense_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
