package fetch

import (
	"context"
	"errors"
	"fmt"
)

// userMessage maps a fetch failure to the banner text shown to users. The
// technical error stays in the logs; the snapshot only carries this string.
func userMessage(err error) string {
	var statusErr *StatusError

	switch {
	case errors.Is(err, ErrEmptySheet):
		return "시트에 데이터가 없습니다. 잠시 후 다시 확인해 주세요."
	case errors.As(err, &statusErr):
		return fmt.Sprintf("데이터를 불러오지 못했습니다 (HTTP %d). 잠시 후 자동으로 다시 시도합니다.", statusErr.Code)
	case errors.Is(err, context.DeadlineExceeded):
		return "데이터 서버 응답이 너무 느립니다. 잠시 후 자동으로 다시 시도합니다."
	default:
		return "데이터를 불러오는 중 오류가 발생했습니다. 잠시 후 자동으로 다시 시도합니다."
	}
}
