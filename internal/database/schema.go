package database

var schema = []string{
	`
CREATE TABLE IF NOT EXISTS dms_documents (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  content TEXT NOT NULL DEFAULT '',
  tags TEXT NOT NULL DEFAULT '',
  metadata TEXT NOT NULL DEFAULT '{}',
  file_path TEXT NOT NULL DEFAULT '',
  file_name TEXT NOT NULL DEFAULT '',
  file_extension TEXT NOT NULL DEFAULT '',
  file_size INTEGER NOT NULL DEFAULT 0,
  mime_type TEXT NOT NULL DEFAULT '',
  category TEXT NOT NULL DEFAULT '',
  doc_type TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'active',
  created_by TEXT NOT NULL DEFAULT '',
  created_at DATETIME NOT NULL DEFAULT (datetime('now')),
  updated_by TEXT NOT NULL DEFAULT '',
  updated_at DATETIME NOT NULL DEFAULT (datetime('now')),
  fts_content TEXT,
  fts_rank REAL,
  fts_last_updated DATETIME
);

CREATE INDEX IF NOT EXISTS idx_documents_status ON dms_documents(status);
CREATE INDEX IF NOT EXISTS idx_documents_category ON dms_documents(category);
CREATE INDEX IF NOT EXISTS idx_documents_created ON dms_documents(created_at);
CREATE INDEX IF NOT EXISTS idx_documents_updated ON dms_documents(updated_at);
	`,
	`
CREATE VIRTUAL TABLE IF NOT EXISTS dms_documents_fts USING fts5(
  title,
  description,
  fts_content,
  tags,
  content='dms_documents',
  content_rowid='rowid',
  prefix='2 3',
  tokenize='porter unicode61'
);

-- Triggers to keep the FTS index up to date.
CREATE TRIGGER IF NOT EXISTS dms_documents_ai AFTER INSERT ON dms_documents BEGIN
  INSERT INTO dms_documents_fts(rowid, title, description, fts_content, tags)
  VALUES (new.rowid, new.title, new.description, new.fts_content, new.tags);
END;

CREATE TRIGGER IF NOT EXISTS dms_documents_ad AFTER DELETE ON dms_documents BEGIN
  INSERT INTO dms_documents_fts(dms_documents_fts, rowid, title, description, fts_content, tags)
  VALUES ('delete', old.rowid, old.title, old.description, old.fts_content, old.tags);
END;

CREATE TRIGGER IF NOT EXISTS dms_documents_au AFTER UPDATE ON dms_documents BEGIN
  INSERT INTO dms_documents_fts(dms_documents_fts, rowid, title, description, fts_content, tags)
  VALUES ('delete', old.rowid, old.title, old.description, old.fts_content, old.tags);
  INSERT INTO dms_documents_fts(rowid, title, description, fts_content, tags)
  VALUES (new.rowid, new.title, new.description, new.fts_content, new.tags);
END;
	`,
	`
CREATE TABLE IF NOT EXISTS dms_search_analytics (
  id TEXT PRIMARY KEY,
  search_term TEXT NOT NULL,
  filters TEXT NOT NULL DEFAULT '{}',
  user_id TEXT NOT NULL DEFAULT '',
  result_count INTEGER NOT NULL DEFAULT 0,
  search_time_ms INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_search_analytics_created ON dms_search_analytics(created_at);
CREATE INDEX IF NOT EXISTS idx_search_analytics_term ON dms_search_analytics(search_term);
CREATE INDEX IF NOT EXISTS idx_search_analytics_user ON dms_search_analytics(user_id);
	`,
}
