package history

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id       TEXT NOT NULL,
    command      TEXT NOT NULL,
    args         TEXT,
    project_dir  TEXT NOT NULL,
    exit_code    INTEGER NOT NULL,
    cancelled    INTEGER NOT NULL DEFAULT 0,
    launch_error TEXT,
    started_at   INTEGER NOT NULL,
    duration_ms  INTEGER NOT NULL
);
`
