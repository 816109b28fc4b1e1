package main

import "fmt"

var (
	g0 int
	g1 int
	g2 int
	g3 int
	g4 int
	g5 int
	g6 int
	g7 int
	g8 int
	g9 int
	g10 int
	g11 int
	g12 int
	g13 int
	g14 int
	g15 int
	g16 int
	g17 int
	g18 int
	g19 int
	g20 int
	g21 int
	g22 int
	g23 int
	g24 int
	g25 int
	g26 int
	g27 int
	g28 int
	g29 int
	g30 int
	g31 int
	g32 int
	g33 int
	g34 int
	g35 int
	g36 int
	g37 int
	g38 int
	g39 int
	g40 int
	g41 int
	g42 int
	g43 int
	g44 int
	g45 int
	g46 int
	g47 int
	g48 int
	g49 int
	g50 int
	g51 int
	g52 int
	g53 int
	g54 int
	g55 int
	g56 int
	g57 int
	g58 int
	g59 int
	g60 int
	g61 int
	g62 int
	g63 int
	g64 int
	g65 int
	g66 int
	g67 int
	g68 int
	g69 int
	g70 int
	g71 int
	g72 int
	g73 int
	g74 int
	g75 int
	g76 int
	g77 int
	g78 int
	g79 int
	g80 int
	g81 int
	g82 int
	g83 int
	g84 int
	g85 int
	g86 int
	g87 int
	g88 int
	g89 int
	g90 int
	g91 int
	g92 int
	g93 int
	g94 int
	g95 int
	g96 int
	g97 int
	g98 int
	g99 int
	g100 int
	g101 int
	g102 int
	g103 int
	g104 int
	g105 int
	g106 int
	g107 int
	g108 int
	g109 int
	g110 int
	g111 int
	g112 int
	g113 int
	g114 int
	g115 int
	g116 int
	g117 int
	g118 int
	g119 int
	g120 int
	g121 int
	g122 int
	g123 int
	g124 int
	g125 int
	g126 int
	g127 int
	g128 int
	g129 int
	g130 int
	g131 int
	g132 int
	g133 int
	g134 int
	g135 int
	g136 int
	g137 int
	g138 int
	g139 int
	g140 int
	g141 int
	g142 int
	g143 int
	g144 int
	g145 int
	g146 int
	g147 int
	g148 int
	g149 int
	g150 int
	g151 int
	g152 int
	g153 int
	g154 int
	g155 int
	g156 int
	g157 int
	g158 int
	g159 int
	g160 int
	g161 int
	g162 int
	g163 int
	g164 int
	g165 int
	g166 int
	g167 int
	g168 int
	g169 int
	g170 int
	g171 int
	g172 int
	g173 int
	g174 int
	g175 int
	g176 int
	g177 int
	g178 int
	g179 int
	g180 int
	g181 int
	g182 int
	g183 int
	g184 int
	g185 int
	g186 int
	g187 int
	g188 int
	g189 int
	g190 int
	g191 int
	g192 int
	g193 int
	g194 int
	g195 int
	g196 int
	g197 int
	g198 int
	g199 int
	g200 int
	g201 int
	g202 int
	g203 int
	g204 int
	g205 int
	g206 int
	g207 int
	g208 int
	g209 int
	g210 int
	g211 int
	g212 int
	g213 int
	g214 int
	g215 int
	g216 int
	g217 int
	g218 int
	g219 int
	g220 int
	g221 int
	g222 int
	g223 int
	g224 int
	g225 int
	g226 int
	g227 int
	g228 int
	g229 int
	g230 int
	g231 int
	g232 int
	g233 int
	g234 int
	g235 int
	g236 int
	g237 int
	g238 int
	g239 int
	g240 int
	g241 int
	g242 int
	g243 int
	g244 int
	g245 int
	g246 int
	g247 int
	g248 int
	g249 int
	g250 int
	g251 int
	g252 int
	g253 int
	g254 int
	g255 int
	g256 int
	g257 int
	g258 int
	g259 int
	g260 int
	g261 int
	g262 int
	g263 int
	g264 int
	g265 int
	g266 int
	g267 int
	g268 int
	g269 int
	g270 int
	g271 int
	g272 int
	g273 int
	g274 int
	g275 int
	g276 int
	g277 int
	g278 int
	g279 int
	g280 int
	g281 int
	g282 int
	g283 int
	g284 int
	g285 int
	g286 int
	g287 int
	g288 int
	g289 int
	g290 int
	g291 int
	g292 int
	g293 int
	g294 int
	g295 int
	g296 int
	g297 int
	g298 int
	g299 int
	g300 int
	g301 int
	g302 int
	g303 int
	g304 int
	g305 int
	g306 int
	g307 int
	g308 int
	g309 int
	g310 int
	g311 int
	g312 int
	g313 int
	g314 int
	g315 int
	g316 int
	g317 int
	g318 int
	g319 int
	g320 int
	g321 int
	g322 int
	g323 int
	g324 int
	g325 int
	g326 int
	g327 int
	g328 int
	g329 int
	g330 int
	g331 int
	g332 int
	g333 int
	g334 int
	g335 int
	g336 int
	g337 int
	g338 int
	g339 int
	g340 int
	g341 int
	g342 int
	g343 int
	g344 int
	g345 int
	g346 int
	g347 int
	g348 int
	g349 int
	g350 int
	g351 int
	g352 int
	g353 int
	g354 int
	g355 int
	g356 int
	g357 int
	g358 int
	g359 int
	g360 int
	g361 int
	g362 int
	g363 int
	g364 int
	g365 int
	g366 int
	g367 int
	g368 int
	g369 int
	g370 int
	g371 int
	g372 int
	g373 int
	g374 int
	g375 int
	g376 int
	g377 int
	g378 int
	g379 int
	g380 int
	g381 int
	g382 int
	g383 int
	g384 int
	g385 int
	g386 int
	g387 int
	g388 int
	g389 int
	g390 int
	g391 int
	g392 int
	g393 int
	g394 int
	g395 int
	g396 int
	g397 int
	g398 int
	g399 int
)

// straight has no branches after its prologue.
//
//go:noinline
func straight() {
	g0++
	g1++
	g2++
	g3++
	g4++
	g5++
	g6++
	g7++
	g8++
	g9++
	g10++
	g11++
	g12++
	g13++
	g14++
	g15++
	g16++
	g17++
	g18++
	g19++
	g20++
	g21++
	g22++
	g23++
	g24++
	g25++
	g26++
	g27++
	g28++
	g29++
	g30++
	g31++
	g32++
	g33++
	g34++
	g35++
	g36++
	g37++
	g38++
	g39++
	g40++
	g41++
	g42++
	g43++
	g44++
	g45++
	g46++
	g47++
	g48++
	g49++
	g50++
	g51++
	g52++
	g53++
	g54++
	g55++
	g56++
	g57++
	g58++
	g59++
	g60++
	g61++
	g62++
	g63++
	g64++
	g65++
	g66++
	g67++
	g68++
	g69++
	g70++
	g71++
	g72++
	g73++
	g74++
	g75++
	g76++
	g77++
	g78++
	g79++
	g80++
	g81++
	g82++
	g83++
	g84++
	g85++
	g86++
	g87++
	g88++
	g89++
	g90++
	g91++
	g92++
	g93++
	g94++
	g95++
	g96++
	g97++
	g98++
	g99++
	g100++
	g101++
	g102++
	g103++
	g104++
	g105++
	g106++
	g107++
	g108++
	g109++
	g110++
	g111++
	g112++
	g113++
	g114++
	g115++
	g116++
	g117++
	g118++
	g119++
	g120++
	g121++
	g122++
	g123++
	g124++
	g125++
	g126++
	g127++
	g128++
	g129++
	g130++
	g131++
	g132++
	g133++
	g134++
	g135++
	g136++
	g137++
	g138++
	g139++
	g140++
	g141++
	g142++
	g143++
	g144++
	g145++
	g146++
	g147++
	g148++
	g149++
	g150++
	g151++
	g152++
	g153++
	g154++
	g155++
	g156++
	g157++
	g158++
	g159++
	g160++
	g161++
	g162++
	g163++
	g164++
	g165++
	g166++
	g167++
	g168++
	g169++
	g170++
	g171++
	g172++
	g173++
	g174++
	g175++
	g176++
	g177++
	g178++
	g179++
	g180++
	g181++
	g182++
	g183++
	g184++
	g185++
	g186++
	g187++
	g188++
	g189++
	g190++
	g191++
	g192++
	g193++
	g194++
	g195++
	g196++
	g197++
	g198++
	g199++
	g200++
	g201++
	g202++
	g203++
	g204++
	g205++
	g206++
	g207++
	g208++
	g209++
	g210++
	g211++
	g212++
	g213++
	g214++
	g215++
	g216++
	g217++
	g218++
	g219++
	g220++
	g221++
	g222++
	g223++
	g224++
	g225++
	g226++
	g227++
	g228++
	g229++
	g230++
	g231++
	g232++
	g233++
	g234++
	g235++
	g236++
	g237++
	g238++
	g239++
	g240++
	g241++
	g242++
	g243++
	g244++
	g245++
	g246++
	g247++
	g248++
	g249++
	g250++
	g251++
	g252++
	g253++
	g254++
	g255++
	g256++
	g257++
	g258++
	g259++
	g260++
	g261++
	g262++
	g263++
	g264++
	g265++
	g266++
	g267++
	g268++
	g269++
	g270++
	g271++
	g272++
	g273++
	g274++
	g275++
	g276++
	g277++
	g278++
	g279++
	g280++
	g281++
	g282++
	g283++
	g284++
	g285++
	g286++
	g287++
	g288++
	g289++
	g290++
	g291++
	g292++
	g293++
	g294++
	g295++
	g296++
	g297++
	g298++
	g299++
	g300++
	g301++
	g302++
	g303++
	g304++
	g305++
	g306++
	g307++
	g308++
	g309++
	g310++
	g311++
	g312++
	g313++
	g314++
	g315++
	g316++
	g317++
	g318++
	g319++
	g320++
	g321++
	g322++
	g323++
	g324++
	g325++
	g326++
	g327++
	g328++
	g329++
	g330++
	g331++
	g332++
	g333++
	g334++
	g335++
	g336++
	g337++
	g338++
	g339++
	g340++
	g341++
	g342++
	g343++
	g344++
	g345++
	g346++
	g347++
	g348++
	g349++
	g350++
	g351++
	g352++
	g353++
	g354++
	g355++
	g356++
	g357++
	g358++
	g359++
	g360++
	g361++
	g362++
	g363++
	g364++
	g365++
	g366++
	g367++
	g368++
	g369++
	g370++
	g371++
	g372++
	g373++
	g374++
	g375++
	g376++
	g377++
	g378++
	g379++
	g380++
	g381++
	g382++
	g383++
	g384++
	g385++
	g386++
	g387++
	g388++
	g389++
	g390++
	g391++
	g392++
	g393++
	g394++
	g395++
	g396++
	g397++
	g398++
	g399++
}

func main() {
	straight()
	fmt.Println(g0 + g399)
}
