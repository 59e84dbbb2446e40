package journal

const Schema = `
CREATE TABLE IF NOT EXISTS transactions (
	tx_id TEXT PRIMARY KEY,
	portfolio_id TEXT NOT NULL,
	type TEXT NOT NULL,
	symbol TEXT NOT NULL,
	quantity INTEGER NOT NULL,
	price_per_unit REAL NOT NULL,
	total_value REAL NOT NULL,
	executed_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tx_portfolio ON transactions(portfolio_id, tx_id);

CREATE TABLE IF NOT EXISTS portfolio_state (
	portfolio_id TEXT NOT NULL,
	time DATETIME NOT NULL,
	cash_balance REAL NOT NULL,
	holdings TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_state_portfolio ON portfolio_state(portfolio_id, time);
`
