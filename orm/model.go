package orm

// GeneModel is the row layout of the genes table. Primers only declares the
// foreign key of the primers table; it is never loaded or written.
type GeneModel struct {
	GeneID   string `gorm:"column:gene_id;primaryKey;type:text"`
	Sequence string `gorm:"column:sequence;type:text;not null"`

	Primers []PrimerModel `gorm:"foreignKey:GeneID;references:GeneID"`
}

func (GeneModel) TableName() string {
	return "genes"
}

// PrimerModel is the row layout of the primers table. Gene is only filled by
// Preload and is never written through the association or migrated.
type PrimerModel struct {
	PrimersID       int64   `gorm:"column:primers_id;primaryKey;autoIncrement"`
	GeneID          string  `gorm:"column:gene_id;type:text;not null;index"`
	ForwardSequence string  `gorm:"column:forward_sequence;type:text;not null"`
	ReverseSequence string  `gorm:"column:reverse_sequence;type:text;not null"`
	ForwardTm       float64 `gorm:"column:forward_tm;type:real;not null"`
	ReverseTm       float64 `gorm:"column:reverse_tm;type:real;not null"`

	Gene GeneModel `gorm:"foreignKey:GeneID;references:GeneID;-:migration"`
}

func (PrimerModel) TableName() string {
	return "primers"
}
