/**
 * @description
 * Idempotent schema bootstrap. Run once at startup; every statement is
 * CREATE IF NOT EXISTS so repeated boots are safe.
 */

package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS applications (
    application_id TEXT PRIMARY KEY,
    user_id TEXT,
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    email TEXT NOT NULL,
    phone TEXT NOT NULL,
    ssn_hash TEXT NOT NULL,
    dob DATE NOT NULL,
    employment_status TEXT NOT NULL,
    employer TEXT,
    job_title TEXT,
    annual_income DOUBLE PRECISION,
    employment_start_date DATE,
    reference1_name TEXT NOT NULL,
    reference1_phone TEXT NOT NULL,
    reference2_name TEXT,
    reference2_phone TEXT,
    pet_info TEXT,
    desired_move_date DATE NOT NULL,
    property_id TEXT,
    status TEXT NOT NULL DEFAULT 'submitted',
    background_check_status TEXT NOT NULL DEFAULT 'pending',
    submitted_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_applications_user_id ON applications (user_id);
CREATE INDEX IF NOT EXISTS idx_applications_status ON applications (status);

CREATE TABLE IF NOT EXISTS payments (
    transaction_id TEXT PRIMARY KEY,
    user_id TEXT,
    amount_cents BIGINT NOT NULL,
    currency TEXT NOT NULL DEFAULT 'USD',
    description TEXT,
    card_last_four TEXT NOT NULL,
    cardholder_name TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'processing',
    authorization_stage BOOLEAN NOT NULL DEFAULT FALSE,
    verification_stage BOOLEAN NOT NULL DEFAULT FALSE,
    processing_stage BOOLEAN NOT NULL DEFAULT FALSE,
    finalization_stage BOOLEAN NOT NULL DEFAULT FALSE,
    error_message TEXT,
    retry_count INT NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    completed_at TIMESTAMPTZ,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_payments_user_id ON payments (user_id);
CREATE INDEX IF NOT EXISTS idx_payments_status ON payments (status);

CREATE TABLE IF NOT EXISTS newsletter_subscribers (
    email TEXT PRIMARY KEY,
    subscription_status TEXT NOT NULL DEFAULT 'active',
    subscribed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    unsubscribed_at TIMESTAMPTZ,
    emails_received INT NOT NULL DEFAULT 0,
    last_email_sent TIMESTAMPTZ,
    frequency TEXT NOT NULL DEFAULT 'weekly',
    pref_new_listings BOOLEAN NOT NULL DEFAULT TRUE,
    pref_market_trends BOOLEAN NOT NULL DEFAULT TRUE,
    pref_tips BOOLEAN NOT NULL DEFAULT TRUE,
    pref_promotions BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS notifications (
    id UUID PRIMARY KEY,
    user_id TEXT NOT NULL,
    type TEXT NOT NULL,
    title TEXT NOT NULL,
    message TEXT NOT NULL,
    related_id TEXT,
    action_url TEXT,
    read BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    expires_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notifications_user_id ON notifications (user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_notifications_expires_at ON notifications (expires_at);

CREATE TABLE IF NOT EXISTS email_outbox (
    id BIGSERIAL PRIMARY KEY,
    recipient TEXT NOT NULL,
    subject TEXT NOT NULL,
    html_body TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending',
    attempts INT NOT NULL DEFAULT 0,
    next_attempt_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    last_error TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    sent_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_email_outbox_claim ON email_outbox (status, next_attempt_at);
`

// EnsureSchema creates the service's tables and indexes when missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schemaSQL)
	return err
}
