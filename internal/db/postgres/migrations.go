package postgres

// Migration — одна версия схемы.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Migrations встроены в код для упрощения деплоя. Порядок важен: внешние ключи
// ссылаются на users.
var Migrations = []Migration{
	{1, "users", migration001Users},
	{2, "hydration_records", migration002HydrationRecords},
	{3, "milestone_unlocks", migration003MilestoneUnlocks},
	{4, "reward_claims", migration004RewardClaims},
	{5, "notification_log", migration005NotificationLog},
	{6, "reminder_log", migration006ReminderLog},
}

var migration001Users = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT UNIQUE NOT NULL,
    name TEXT NOT NULL DEFAULT '',
    notification_email TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// completed хранится, но всегда пересчитывается тем же запросом, что меняет
// glass_count или target; CHECK не даёт ему разойтись с ними.
var migration002HydrationRecords = `
CREATE TABLE IF NOT EXISTS hydration_records (
    user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    date DATE NOT NULL,
    glass_count INTEGER NOT NULL DEFAULT 0 CHECK (glass_count >= 0),
    target INTEGER NOT NULL DEFAULT 8 CHECK (target > 0),
    completed BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (user_id, date),
    CONSTRAINT hydration_records_completed_derived CHECK (completed = (glass_count >= target))
);
CREATE INDEX IF NOT EXISTS idx_hydration_records_date ON hydration_records(date);
`

var migration003MilestoneUnlocks = `
CREATE TABLE IF NOT EXISTS milestone_unlocks (
    user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    milestone_id TEXT NOT NULL,
    unlocked_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (user_id, milestone_id)
);
`

var migration004RewardClaims = `
CREATE TABLE IF NOT EXISTS reward_claims (
    user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    reward_id TEXT NOT NULL,
    claimed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (user_id, reward_id)
);
`

var migration005NotificationLog = `
CREATE TABLE IF NOT EXISTS notification_log (
    id UUID PRIMARY KEY,
    user_id TEXT NOT NULL,
    channel TEXT NOT NULL,
    recipient TEXT NOT NULL DEFAULT '',
    subject TEXT NOT NULL DEFAULT '',
    glass_count INTEGER NOT NULL DEFAULT 0,
    dedup_key TEXT NOT NULL,
    sent BOOLEAN NOT NULL,
    error TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_notification_log_user ON notification_log(user_id, created_at DESC);
CREATE UNIQUE INDEX IF NOT EXISTS idx_notification_log_sent_once ON notification_log(dedup_key) WHERE sent;
`

var migration006ReminderLog = `
CREATE TABLE IF NOT EXISTS reminder_log (
    user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    date DATE NOT NULL,
    sent_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (user_id, date)
);
`
