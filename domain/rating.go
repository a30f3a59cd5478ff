package domain

import (
	"github.com/fundwit/go-commons/types"
)

type Rating struct {
	ID        types.ID  `json:"id" gorm:"primary_key"`
	RatedBy   types.ID  `json:"ratedBy" sql:"type:BIGINT UNSIGNED NOT NULL"`
	RatedTo   types.ID  `json:"ratedTo" gorm:"index:rated_to_idx" sql:"type:BIGINT UNSIGNED NOT NULL"`
	ProjectID *types.ID `json:"projectId" sql:"type:BIGINT UNSIGNED"`

	Rating int    `json:"rating" sql:"type:TINYINT NOT NULL"`
	Review string `json:"review" sql:"type:TEXT"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

// RatingCreation rating range is checked by the collector, so an out of range value is reported uniformly
type RatingCreation struct {
	RatedTo   types.ID  `json:"ratedTo" binding:"required"`
	ProjectID *types.ID `json:"projectId"`
	Rating    int       `json:"rating"`
	Review    string    `json:"review" binding:"lte=2000"`
}
